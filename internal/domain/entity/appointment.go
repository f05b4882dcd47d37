package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"

	// Reserved, not produced by the chat flows
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
)

// Appointment is a booked visit. Patient fields are a copy of what the user
// typed at booking time, and Fee is copied from the doctor at the same moment.
type Appointment struct {
	ID              uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	SerialNumber    string            `gorm:"type:varchar(36);uniqueIndex;not null" json:"serial_number"`
	PatientName     string            `gorm:"type:varchar(120);not null" json:"patient_name"`
	PatientEmail    string            `gorm:"type:varchar(120);not null" json:"patient_email"`
	PatientMobile   string            `gorm:"type:varchar(20);not null;index" json:"patient_mobile"`
	Speciality      Speciality        `gorm:"type:varchar(200);not null" json:"speciality"`
	DoctorID        uint              `gorm:"not null;index" json:"doctor_id"`
	AppointmentTime time.Time         `gorm:"type:timestamp;not null" json:"appointment_time"`
	Fee             decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"fee"`
	Status          AppointmentStatus `gorm:"type:varchar(50);default:'Scheduled'" json:"status"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsCompleted checks if appointment is completed
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

// HasDoctor reports whether the doctor relation was loaded
func (a *Appointment) HasDoctor() bool {
	return a.Doctor.ID != 0
}

// AppointmentFilter is a domain-level filter for looking appointments up by mobile.
type AppointmentFilter struct {
	Mobile          string
	MatchSuffix     bool // match stored numbers ending with Mobile (tolerates country prefixes)
	ExcludeStatuses []AppointmentStatus
	Limit           int // 0 means no limit
}
