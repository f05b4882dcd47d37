package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type AppointmentLookupRequest struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
}

// Response DTOs

type AppointmentResponse struct {
	SerialNumber    string          `json:"serial_number"`
	PatientName     string          `json:"patient_name"`
	DoctorName      string          `json:"doctor_name"`
	Speciality      string          `json:"speciality"`
	AppointmentTime time.Time       `json:"appointment_time"`
	Fee             decimal.Decimal `json:"fee"`
	Status          string          `json:"status"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}
