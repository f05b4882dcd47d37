package usecase

import (
	"context"
	"fmt"
	"strings"

	"go-healthbot/internal/converter"
	"go-healthbot/internal/domain/entity"
)

const (
	cancelErrorReply = "An error occurred. Please type 'cancel' to try again."
	unknownDoctor    = "Unknown Doctor"
)

type cancellationFlow struct {
	*flowDeps
}

func newCancellationFlow(deps *flowDeps) *cancellationFlow {
	return &cancellationFlow{flowDeps: deps}
}

func (f *cancellationFlow) flow() entity.Flow { return entity.FlowCancel }

func (f *cancellationFlow) start() (entity.SessionState, string) {
	return entity.CancelChooseMethodState{}, "To cancel your appointment, please choose:\n\n" +
		"1 → To Enter Mobile Number\n" +
		"2 → To Enter Serial Number\n\n" +
		"Reply with 1 or 2"
}

// onError: every failure in this flow gets the same retry hint
func (f *cancellationFlow) onError(error) string {
	return cancelErrorReply
}

func (f *cancellationFlow) handlers() []handlerEntry {
	return []handlerEntry{
		on(f.chooseMethod),
		on(f.awaitingMobile),
		on(f.awaitingSerial),
		on(f.chooseAppointment),
		on(f.confirmCancel),
	}
}

func (f *cancellationFlow) chooseMethod(_ context.Context, t turn, _ entity.CancelChooseMethodState) (step, error) {
	switch t.text {
	case "1":
		return moveTo(entity.CancelAwaitingMobileState{}, "Please enter your registered mobile number (10 digits):"), nil
	case "2":
		return moveTo(entity.CancelAwaitingSerialState{}, "Please enter the exact appointment serial number:"), nil
	default:
		return reprompt("❌ Invalid Option. Please select within 1 or 2 only."), nil
	}
}

func (f *cancellationFlow) awaitingMobile(ctx context.Context, t turn, _ entity.CancelAwaitingMobileState) (step, error) {
	if !isDigits(t.text) || len(t.text) != 10 {
		return reprompt("Please enter a valid 10-digit mobile number."), nil
	}

	appointments, err := f.appointmentRepo.FindByMobile(ctx, entity.AppointmentFilter{
		Mobile:          t.text,
		ExcludeStatuses: []entity.AppointmentStatus{entity.AppointmentStatusCancelled},
	})
	if err != nil {
		return step{}, err
	}

	switch len(appointments) {
	case 0:
		return endFlow("No active appointments found for this mobile number."), nil
	case 1:
		a := &appointments[0]
		return moveTo(entity.CancelConfirmState{AppointmentID: a.ID}, fmt.Sprintf(
			"Found your appointment:\n\n"+
				"Serial: %s\n\n"+
				"👤 Patient: %s\n"+
				"👨‍⚕️ Doctor: %s\n"+
				"📅 Date & Time: %s\n"+
				"Cancel this appointment?\nReply: yes or no",
			a.SerialNumber, a.PatientName, doctorWithSpeciality(a), a.AppointmentTime.Format(dateTimeFormat))), nil
	}

	options := make([]entity.AppointmentOption, len(appointments))
	var b strings.Builder
	b.WriteString("Multiple active appointments found:\n\n")
	for i := range appointments {
		options[i] = converter.AppointmentToOption(&appointments[i], unknownDoctor)
		fmt.Fprintf(&b, "%d. %s → %s\n   %s\n   Serial: %s\n\n",
			i+1, options[i].PatientName, options[i].DoctorName, options[i].Time.Format(dateTimeFormat), options[i].Serial)
	}
	b.WriteString("Reply with the number to cancel:")

	return moveTo(entity.CancelChooseAppointmentState{Mobile: t.text, Appointments: options}, b.String()), nil
}

func (f *cancellationFlow) awaitingSerial(ctx context.Context, t turn, _ entity.CancelAwaitingSerialState) (step, error) {
	if t.text == "" {
		return reprompt("Please send the serial number (e.g., a UUID like 123e4567-e89b-12d3-a456-426614174000)."), nil
	}

	appointment, err := f.appointmentRepo.FindBySerial(ctx, t.text)
	if err != nil {
		return step{}, err
	}
	if appointment == nil {
		return endFlow(fmt.Sprintf("No appointment found with serial: %s", t.text)), nil
	}
	if appointment.IsCancelled() {
		return endFlow(fmt.Sprintf("Appointment %s is already cancelled.", t.text)), nil
	}

	return moveTo(entity.CancelConfirmState{AppointmentID: appointment.ID}, fmt.Sprintf(
		"Found appointment:\n\n"+
			"Serial: %s\n\n"+
			"👤Patient: %s\n"+
			"👨‍⚕️Doctor: %s\n"+
			"📅Date & Time: %s\n"+
			"Cancel this appointment?\nReply: 'yes' to confirm or 'no' to abort cancellation",
		appointment.SerialNumber, appointment.PatientName, doctorWithSpeciality(appointment),
		appointment.AppointmentTime.Format(longDateFormat+" • "+clockFormat))), nil
}

func (f *cancellationFlow) chooseAppointment(_ context.Context, t turn, s entity.CancelChooseAppointmentState) (step, error) {
	n, ok := parseChoice(t.text)
	if !ok || n < 1 || n > len(s.Appointments) {
		return reprompt("❌ Invalid number. Please choose from the list."), nil
	}

	selected := s.Appointments[n-1]
	return moveTo(entity.CancelConfirmState{AppointmentID: selected.ID}, fmt.Sprintf(
		"You selected:\n"+
			"Serial Number: %s\n👤Patient: %s\n📅Date & Time: %s\n\n"+
			"Confirm cancellation?\nReply: 'yes' to confirm or 'no' to abort cancellation",
		selected.Serial, selected.PatientName, selected.Time.Format(dateTimeFormat))), nil
}

func (f *cancellationFlow) confirmCancel(ctx context.Context, t turn, s entity.CancelConfirmState) (step, error) {
	switch {
	case t.is("yes", "y", "confirm"):
	case t.is("no", "n", "abort"):
		return endFlow("Cancellation cancelled. Your appointment remains active."), nil
	default:
		return reprompt("Please reply 'yes' to cancel or 'no' to keep it."), nil
	}

	appointment, err := f.appointmentRepo.FindByID(ctx, s.AppointmentID)
	if err != nil {
		return step{}, err
	}
	if appointment == nil {
		return endFlow("Appointment no longer exists."), nil
	}

	affected, err := f.appointmentRepo.Cancel(ctx, appointment.ID)
	if err != nil {
		return step{}, err
	}
	if affected == 0 {
		return endFlow(fmt.Sprintf("Appointment %s is already cancelled.", appointment.SerialNumber)), nil
	}
	f.auditUpdate(ctx, t.userID, entity.AuditActionAppointmentCancel, appointment.SerialNumber,
		map[string]interface{}{"status": appointment.Status},
		map[string]interface{}{"status": entity.AppointmentStatusCancelled})

	f.notifyAsync(ctx, notifyCancellation, appointment.PatientEmail, "Appointment Cancelled - HealthBot", fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your appointment on %s at %s\n"+
			"with %s has been cancelled.\n\n"+
			"Serial: %s\n\nThank you.",
		appointment.PatientName, appointment.AppointmentTime.Format(longDateFormat), appointment.AppointmentTime.Format(clockFormat),
		doctorName(appointment, "your doctor"), appointment.SerialNumber))

	return endFlow(fmt.Sprintf("Appointment %s has been successfully cancelled!\n\n"+
		"Need help with anything else? Write 'help' to see more options", appointment.SerialNumber)), nil
}

func doctorWithSpeciality(a *entity.Appointment) string {
	if !a.HasDoctor() {
		return unknownDoctor
	}
	return fmt.Sprintf("%s (%s)", a.Doctor.Name, a.Doctor.Speciality)
}
