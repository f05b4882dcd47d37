package repository

import (
	"context"
	"time"

	"go-healthbot/internal/domain/entity"
)

// AppointmentRepository finders return nil, nil when nothing matches.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uint) (*entity.Appointment, error)
	FindBySerial(ctx context.Context, serial string) (*entity.Appointment, error)
	FindByMobile(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	UpdateStatus(ctx context.Context, id uint, status entity.AppointmentStatus) error
	UpdateTime(ctx context.Context, id uint, appointmentTime time.Time, status entity.AppointmentStatus) error
	Cancel(ctx context.Context, id uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}
