package repository

import (
	"context"

	"go-healthbot/internal/domain/entity"
)

type DoctorRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Doctor, error)
	FindBySpeciality(ctx context.Context, speciality entity.Speciality) ([]entity.Doctor, error)
	FindAll(ctx context.Context) ([]entity.Doctor, error)
}
