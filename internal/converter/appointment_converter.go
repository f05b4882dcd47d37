package converter

import (
	"go-healthbot/internal/delivery/dto"
	"go-healthbot/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Patient contact details are left out on purpose: the lookup is by mobile only.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	doctorName := ""
	if appointment.HasDoctor() {
		doctorName = appointment.Doctor.Name
	}

	return &dto.AppointmentResponse{
		SerialNumber:    appointment.SerialNumber,
		PatientName:     appointment.PatientName,
		DoctorName:      doctorName,
		Speciality:      string(appointment.Speciality),
		AppointmentTime: appointment.AppointmentTime,
		Fee:             appointment.Fee,
		Status:          string(appointment.Status),
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentToOption keeps the fields a chat listing shows
func AppointmentToOption(appointment *entity.Appointment, unknownDoctor string) entity.AppointmentOption {
	doctorName := unknownDoctor
	if appointment.HasDoctor() {
		doctorName = appointment.Doctor.Name
	}
	return entity.AppointmentOption{
		ID:          appointment.ID,
		Serial:      appointment.SerialNumber,
		PatientName: appointment.PatientName,
		DoctorName:  doctorName,
		Time:        appointment.AppointmentTime,
	}
}
