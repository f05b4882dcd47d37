package entity

import (
	"time"

	"go-healthbot/pkg/slottime"
)

// Flow is the user goal a session is pursuing
type Flow string

const (
	FlowNone       Flow = "none"
	FlowBook       Flow = "book"
	FlowCancel     Flow = "cancel"
	FlowReschedule Flow = "reschedule"
)

// Stage names a position inside a flow
type Stage string

const (
	StageName         Stage = "name"
	StageEmail        Stage = "email"
	StageMobile       Stage = "mobile"
	StageSpeciality   Stage = "speciality"
	StageChooseDoctor Stage = "choose_doctor"
	StageDate         Stage = "date"
	StageTime         Stage = "time"
	StageSlotChoice   Stage = "slot_choice"
	StageConfirmation Stage = "confirmation"

	// Booking terminal markers. They are stored but never dispatched.
	StageDone     Stage = "done"
	StageGreeting Stage = "greeting"

	StageChooseMethod      Stage = "choose_method"
	StageAwaitingMobile    Stage = "awaiting_mobile"
	StageAwaitingSerial    Stage = "awaiting_serial"
	StageChooseAppointment Stage = "choose_appointment"
	StageConfirmCancel     Stage = "confirm_cancel"
	StageConfirmReschedule Stage = "confirm_reschedule"
)

var flowStages = map[Flow][]Stage{
	FlowBook: {
		StageName, StageEmail, StageMobile, StageSpeciality, StageChooseDoctor,
		StageDate, StageTime, StageSlotChoice, StageConfirmation,
	},
	FlowCancel: {
		StageChooseMethod, StageAwaitingMobile, StageAwaitingSerial,
		StageChooseAppointment, StageConfirmCancel,
	},
	FlowReschedule: {
		StageChooseMethod, StageAwaitingMobile, StageAwaitingSerial,
		StageChooseAppointment, StageConfirmReschedule,
		StageDate, StageTime, StageSlotChoice, StageConfirmation,
	},
}

// FlowStages returns the stages a flow can be dispatched on.
func FlowStages(flow Flow) []Stage {
	stages := flowStages[flow]
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// IsLegalStage reports whether stage belongs to the dispatchable set of flow.
func IsLegalStage(flow Flow, stage Stage) bool {
	for _, s := range flowStages[flow] {
		if s == stage {
			return true
		}
	}
	return false
}

// SessionState is implemented by exactly one type per (flow, stage) pair.
// Each variant carries only the values collected up to that stage.
type SessionState interface {
	Flow() Flow
	Stage() Stage
	sessionState()
}

// Session is the conversational memory of one user
type Session struct {
	UserID    string
	State     SessionState
	UpdatedAt time.Time
}

func (s *Session) Flow() Flow {
	if s == nil || s.State == nil {
		return FlowNone
	}
	return s.State.Flow()
}

func (s *Session) Stage() Stage {
	if s == nil || s.State == nil {
		return ""
	}
	return s.State.Stage()
}

type PatientDetails struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// DoctorOption is the slice of a doctor kept while the user picks one
type DoctorOption struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Speciality Speciality `json:"speciality"`
}

// AppointmentOption is a lookup result listed for the user to pick from
type AppointmentOption struct {
	ID          uint      `json:"id"`
	Serial      string    `json:"serial"`
	PatientName string    `json:"patient_name"`
	DoctorName  string    `json:"doctor_name"`
	Time        time.Time `json:"time"`
}

// BookingDraft holds everything collected once a doctor is chosen
type BookingDraft struct {
	Patient    PatientDetails `json:"patient"`
	Speciality Speciality     `json:"speciality"`
	DoctorID   uint           `json:"doctor_id"`
	DoctorName string         `json:"doctor_name"`
}

// Booking flow

type BookingNameState struct{}

type BookingEmailState struct {
	Name string `json:"name"`
}

type BookingMobileState struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BookingSpecialityState struct {
	Patient PatientDetails `json:"patient"`
}

type BookingChooseDoctorState struct {
	Patient    PatientDetails `json:"patient"`
	Speciality Speciality     `json:"speciality"`
	Doctors    []DoctorOption `json:"doctors"`
}

type BookingDateState struct {
	Draft BookingDraft `json:"draft"`
}

type BookingTimeState struct {
	Draft BookingDraft `json:"draft"`
	Date  time.Time    `json:"date"`
}

type BookingSlotChoiceState struct {
	Draft BookingDraft   `json:"draft"`
	Date  time.Time      `json:"date"`
	Shift slottime.Shift `json:"shift"`
	Slots []string       `json:"slots"`
}

type BookingConfirmationState struct {
	Draft         BookingDraft `json:"draft"`
	Date          time.Time    `json:"date"`
	Slot          string       `json:"slot"`
	AppointmentID uint         `json:"appointment_id"`
}

type BookingDoneState struct{}

type BookingDeclinedState struct{}

func (BookingNameState) Flow() Flow         { return FlowBook }
func (BookingEmailState) Flow() Flow        { return FlowBook }
func (BookingMobileState) Flow() Flow       { return FlowBook }
func (BookingSpecialityState) Flow() Flow   { return FlowBook }
func (BookingChooseDoctorState) Flow() Flow { return FlowBook }
func (BookingDateState) Flow() Flow         { return FlowBook }
func (BookingTimeState) Flow() Flow         { return FlowBook }
func (BookingSlotChoiceState) Flow() Flow   { return FlowBook }
func (BookingConfirmationState) Flow() Flow { return FlowBook }
func (BookingDoneState) Flow() Flow         { return FlowBook }
func (BookingDeclinedState) Flow() Flow     { return FlowBook }

func (BookingNameState) Stage() Stage         { return StageName }
func (BookingEmailState) Stage() Stage        { return StageEmail }
func (BookingMobileState) Stage() Stage       { return StageMobile }
func (BookingSpecialityState) Stage() Stage   { return StageSpeciality }
func (BookingChooseDoctorState) Stage() Stage { return StageChooseDoctor }
func (BookingDateState) Stage() Stage         { return StageDate }
func (BookingTimeState) Stage() Stage         { return StageTime }
func (BookingSlotChoiceState) Stage() Stage   { return StageSlotChoice }
func (BookingConfirmationState) Stage() Stage { return StageConfirmation }
func (BookingDoneState) Stage() Stage         { return StageDone }
func (BookingDeclinedState) Stage() Stage     { return StageGreeting }

func (BookingNameState) sessionState()         {}
func (BookingEmailState) sessionState()        {}
func (BookingMobileState) sessionState()       {}
func (BookingSpecialityState) sessionState()   {}
func (BookingChooseDoctorState) sessionState() {}
func (BookingDateState) sessionState()         {}
func (BookingTimeState) sessionState()         {}
func (BookingSlotChoiceState) sessionState()   {}
func (BookingConfirmationState) sessionState() {}
func (BookingDoneState) sessionState()         {}
func (BookingDeclinedState) sessionState()     {}

// Cancellation flow

type CancelChooseMethodState struct{}

type CancelAwaitingMobileState struct{}

type CancelAwaitingSerialState struct{}

type CancelChooseAppointmentState struct {
	Mobile       string              `json:"mobile"`
	Appointments []AppointmentOption `json:"appointments"`
}

type CancelConfirmState struct {
	AppointmentID uint `json:"appointment_id"`
}

func (CancelChooseMethodState) Flow() Flow      { return FlowCancel }
func (CancelAwaitingMobileState) Flow() Flow    { return FlowCancel }
func (CancelAwaitingSerialState) Flow() Flow    { return FlowCancel }
func (CancelChooseAppointmentState) Flow() Flow { return FlowCancel }
func (CancelConfirmState) Flow() Flow           { return FlowCancel }

func (CancelChooseMethodState) Stage() Stage      { return StageChooseMethod }
func (CancelAwaitingMobileState) Stage() Stage    { return StageAwaitingMobile }
func (CancelAwaitingSerialState) Stage() Stage    { return StageAwaitingSerial }
func (CancelChooseAppointmentState) Stage() Stage { return StageChooseAppointment }
func (CancelConfirmState) Stage() Stage           { return StageConfirmCancel }

func (CancelChooseMethodState) sessionState()      {}
func (CancelAwaitingMobileState) sessionState()    {}
func (CancelAwaitingSerialState) sessionState()    {}
func (CancelChooseAppointmentState) sessionState() {}
func (CancelConfirmState) sessionState()           {}

// Rescheduling flow

type RescheduleChooseMethodState struct{}

type RescheduleAwaitingMobileState struct{}

type RescheduleAwaitingSerialState struct{}

type RescheduleChooseAppointmentState struct {
	Appointments []AppointmentOption `json:"appointments"`
}

type RescheduleConfirmState struct {
	Serial string `json:"serial"`
}

type RescheduleDateState struct {
	Serial string `json:"serial"`
}

type RescheduleTimeState struct {
	Serial string    `json:"serial"`
	Date   time.Time `json:"date"`
}

type RescheduleSlotChoiceState struct {
	Serial string         `json:"serial"`
	Date   time.Time      `json:"date"`
	Shift  slottime.Shift `json:"shift"`
	Slots  []string       `json:"slots"`
}

type RescheduleConfirmationState struct {
	Serial        string `json:"serial"`
	AppointmentID uint   `json:"appointment_id"`
	Slot          string `json:"slot"`
}

func (RescheduleChooseMethodState) Flow() Flow      { return FlowReschedule }
func (RescheduleAwaitingMobileState) Flow() Flow    { return FlowReschedule }
func (RescheduleAwaitingSerialState) Flow() Flow    { return FlowReschedule }
func (RescheduleChooseAppointmentState) Flow() Flow { return FlowReschedule }
func (RescheduleConfirmState) Flow() Flow           { return FlowReschedule }
func (RescheduleDateState) Flow() Flow              { return FlowReschedule }
func (RescheduleTimeState) Flow() Flow              { return FlowReschedule }
func (RescheduleSlotChoiceState) Flow() Flow        { return FlowReschedule }
func (RescheduleConfirmationState) Flow() Flow      { return FlowReschedule }

func (RescheduleChooseMethodState) Stage() Stage      { return StageChooseMethod }
func (RescheduleAwaitingMobileState) Stage() Stage    { return StageAwaitingMobile }
func (RescheduleAwaitingSerialState) Stage() Stage    { return StageAwaitingSerial }
func (RescheduleChooseAppointmentState) Stage() Stage { return StageChooseAppointment }
func (RescheduleConfirmState) Stage() Stage           { return StageConfirmReschedule }
func (RescheduleDateState) Stage() Stage              { return StageDate }
func (RescheduleTimeState) Stage() Stage              { return StageTime }
func (RescheduleSlotChoiceState) Stage() Stage        { return StageSlotChoice }
func (RescheduleConfirmationState) Stage() Stage      { return StageConfirmation }

func (RescheduleChooseMethodState) sessionState()      {}
func (RescheduleAwaitingMobileState) sessionState()    {}
func (RescheduleAwaitingSerialState) sessionState()    {}
func (RescheduleChooseAppointmentState) sessionState() {}
func (RescheduleConfirmState) sessionState()           {}
func (RescheduleDateState) sessionState()              {}
func (RescheduleTimeState) sessionState()              {}
func (RescheduleSlotChoiceState) sessionState()        {}
func (RescheduleConfirmationState) sessionState()      {}
