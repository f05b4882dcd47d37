package entity

import "github.com/shopspring/decimal"

// Speciality is the medical category a doctor practises
type Speciality string

const (
	SpecialityGeneralPhysician   Speciality = "General Physician"
	SpecialityCardiologist       Speciality = "Cardiologist"
	SpecialityGastroenterologist Speciality = "Gastroenterologist"
	SpecialityDermatologist      Speciality = "Dermatologist"
)

// Doctor is seeded by migration and never changed by the chat flows
type Doctor struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"type:varchar(120);not null" json:"name"`
	Speciality      Speciality      `gorm:"type:varchar(120);not null;index" json:"speciality"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
}

func (Doctor) TableName() string {
	return "doctors"
}
