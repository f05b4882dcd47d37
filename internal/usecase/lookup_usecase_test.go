package usecase

import (
	"context"
	"errors"
	"testing"

	"go-healthbot/internal/delivery/dto"
	"go-healthbot/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorUsecase_GetAllDoctors(t *testing.T) {
	uc := NewDoctorUsecase(newTestLogger(), &fakeDoctorRepo{doctors: testDoctors})

	resp, err := uc.GetAllDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Doctors, 3)
	assert.Equal(t, "Dr. Kavya Iyer", resp.Doctors[2].Name)
	assert.Equal(t, "1200.5", resp.Doctors[2].ConsultationFee.String())
}

func TestDoctorUsecase_PropagatesError(t *testing.T) {
	uc := NewDoctorUsecase(newTestLogger(), &fakeDoctorRepo{err: errors.New("down")})

	_, err := uc.GetAllDoctors(context.Background())
	assert.Error(t, err)
}

func TestAppointmentUsecase_FindByMobile(t *testing.T) {
	doctors := &fakeDoctorRepo{doctors: testDoctors}
	repo := newFakeAppointmentRepo(doctors)
	repo.seed(entity.Appointment{SerialNumber: "SN-1", PatientMobile: "9876543210", DoctorID: 1, Status: entity.AppointmentStatusConfirmed, AppointmentTime: visit})
	repo.seed(entity.Appointment{SerialNumber: "SN-2", PatientMobile: "9876543210", DoctorID: 3, Status: entity.AppointmentStatusCancelled, AppointmentTime: visit.AddDate(0, 0, 1)})
	repo.seed(entity.Appointment{SerialNumber: "SN-3", PatientMobile: "9123456789", DoctorID: 1, AppointmentTime: visit})

	uc := NewAppointmentUsecase(newTestLogger(), repo)
	resp, err := uc.FindByMobile(context.Background(), &dto.AppointmentLookupRequest{Mobile: "9876543210"})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, "SN-2", resp.Appointments[0].SerialNumber)
	assert.Equal(t, "Dr. Kavya Iyer", resp.Appointments[0].DoctorName)
	assert.Equal(t, "Cancelled", resp.Appointments[0].Status)
}
