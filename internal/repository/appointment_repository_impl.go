package repository

import (
	"context"
	"errors"
	"time"

	"go-healthbot/internal/domain/entity"
	domainRepo "go-healthbot/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create assigns a fresh serial number when the caller left it empty. A
// serial collision is retried once with a new one.
func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	generated := appointment.SerialNumber == ""
	if generated {
		appointment.SerialNumber = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Create(appointment).Error
	if err != nil && generated && isDuplicateKeyError(err, "serial") {
		appointment.ID = 0
		appointment.SerialNumber = uuid.NewString()
		err = r.db.WithContext(ctx).Create(appointment).Error
	}
	return err
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindBySerial(ctx context.Context, serial string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor").Where("serial_number = ?", serial).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindByMobile lists appointments for a mobile number, most recent appointment time first.
func (r *appointmentRepository) FindByMobile(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := r.db.WithContext(ctx).Preload("Doctor")

	if filter.MatchSuffix {
		query = query.Where("patient_mobile LIKE ?", "%"+filter.Mobile)
	} else {
		query = query.Where("patient_mobile = ?", filter.Mobile)
	}
	if len(filter.ExcludeStatuses) > 0 {
		query = query.Where("status IS NULL OR status NOT IN ?", filter.ExcludeStatuses)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var appointments []entity.Appointment
	err := query.Order("appointment_time DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uint, status entity.AppointmentStatus) error {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) UpdateTime(ctx context.Context, id uint, appointmentTime time.Time, status entity.AppointmentStatus) error {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"appointment_time": appointmentTime,
			"status":           status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrNotFound
	}
	return nil
}

// Cancel atomically cancels an appointment ONLY if it's not already cancelled.
// Returns affected rows: 1 = success, 0 = already cancelled or missing.
func (r *appointmentRepository) Cancel(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND (status IS NULL OR status != ?)", id, entity.AppointmentStatusCancelled).
		Update("status", entity.AppointmentStatusCancelled)
	return result.RowsAffected, result.Error
}

// Delete removes the row outright, used when a booking is declined at confirmation.
func (r *appointmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Appointment{}, id).Error
}
