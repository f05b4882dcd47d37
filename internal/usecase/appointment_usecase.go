package usecase

import (
	"context"

	"go-healthbot/internal/converter"
	"go-healthbot/internal/delivery/dto"
	"go-healthbot/internal/domain/entity"
	"go-healthbot/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

const appointmentLookupCap = 20

type AppointmentUsecase interface {
	FindByMobile(ctx context.Context, request *dto.AppointmentLookupRequest) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
}

func NewAppointmentUsecase(log *logrus.Logger, appointmentRepo repository.AppointmentRepository) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
	}
}

// FindByMobile lists the most recent appointments of any status stored under mobile.
func (u *appointmentUsecase) FindByMobile(ctx context.Context, request *dto.AppointmentLookupRequest) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByMobile(ctx, entity.AppointmentFilter{
		Mobile: request.Mobile,
		Limit:  appointmentLookupCap,
	})
	if err != nil {
		u.log.Warnf("Failed to find appointments by mobile: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
	}, nil
}
