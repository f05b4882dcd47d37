package dto

import "github.com/shopspring/decimal"

// Response DTOs

type DoctorResponse struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Speciality      string          `json:"speciality"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
}
