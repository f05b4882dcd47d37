package converter

import (
	"testing"
	"time"

	"go-healthbot/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorsToResponses(t *testing.T) {
	doctors := []entity.Doctor{
		{ID: 1, Name: "Dr. Jinni Joffer", Speciality: entity.SpecialityGeneralPhysician, ConsultationFee: decimal.NewFromInt(500)},
		{ID: 2, Name: "Dr. Nia Sharma", Speciality: entity.SpecialityCardiologist, ConsultationFee: decimal.NewFromInt(800)},
	}

	responses := DoctorsToResponses(doctors)
	require.Len(t, responses, 2)
	assert.Equal(t, "Cardiologist", responses[1].Speciality)
	assert.True(t, decimal.NewFromInt(800).Equal(responses[1].ConsultationFee))
	assert.Nil(t, DoctorToResponse(nil))
}

func TestAppointmentToOption_UnknownDoctor(t *testing.T) {
	when := time.Date(2099, 1, 1, 9, 0, 0, 0, time.UTC)
	appointment := &entity.Appointment{ID: 4, SerialNumber: "s-4", PatientName: "Asha Rao", AppointmentTime: when}

	option := AppointmentToOption(appointment, "Unknown Doctor")
	assert.Equal(t, "Unknown Doctor", option.DoctorName)
	assert.Equal(t, "s-4", option.Serial)

	appointment.Doctor = entity.Doctor{ID: 1, Name: "Dr. Jinni Joffer"}
	assert.Equal(t, "Dr. Jinni Joffer", AppointmentToOption(appointment, "Unknown Doctor").DoctorName)
	assert.Equal(t, "Dr. Jinni Joffer", AppointmentToResponse(appointment).DoctorName)
}
