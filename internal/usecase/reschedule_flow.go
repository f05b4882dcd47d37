package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go-healthbot/internal/converter"
	"go-healthbot/internal/domain/entity"
)

const (
	rescheduleErrorReply = "Sorry, something went wrong. Type 'reschedule' to try again."
	rescheduleLookupCap  = 10
)

var nonDigits = regexp.MustCompile(`\D`)

type rescheduleFlow struct {
	*flowDeps
}

func newRescheduleFlow(deps *flowDeps) *rescheduleFlow {
	return &rescheduleFlow{flowDeps: deps}
}

func (f *rescheduleFlow) flow() entity.Flow { return entity.FlowReschedule }

func (f *rescheduleFlow) start() (entity.SessionState, string) {
	return entity.RescheduleChooseMethodState{}, "To reschedule your appointment, please choose:\n\n" +
		"1 → To Enter Mobile Number\n" +
		"2 → To Enter Serial Number\n\n" +
		"Reply with 1 or 2"
}

// onError: only a rejected write at confirmation surfaces its detail
func (f *rescheduleFlow) onError(err error) string {
	var se *storeError
	if errors.As(err, &se) {
		return databaseErrorReply(se.err)
	}
	return rescheduleErrorReply
}

func (f *rescheduleFlow) handlers() []handlerEntry {
	return []handlerEntry{
		on(f.chooseMethod),
		on(f.awaitingMobile),
		on(f.awaitingSerial),
		on(f.chooseAppointment),
		on(f.confirmReschedule),
		on(f.date),
		on(f.time),
		on(f.slotChoice),
		on(f.confirmation),
	}
}

func (f *rescheduleFlow) chooseMethod(_ context.Context, t turn, _ entity.RescheduleChooseMethodState) (step, error) {
	switch t.text {
	case "1":
		return moveTo(entity.RescheduleAwaitingMobileState{}, "Please enter your registered mobile number (10 digits without country code):"), nil
	case "2":
		return moveTo(entity.RescheduleAwaitingSerialState{}, "Please enter the exact appointment serial number:"), nil
	default:
		return reprompt("❌ Invalid Option. Please select within 1 or 2 only."), nil
	}
}

// awaitingMobile keeps the last ten digits so "+91 98765 43210" works too.
func (f *rescheduleFlow) awaitingMobile(ctx context.Context, t turn, _ entity.RescheduleAwaitingMobileState) (step, error) {
	mobile := nonDigits.ReplaceAllString(t.text, "")
	if len(mobile) < 10 {
		return reprompt("Please send a valid 10-digit mobile number."), nil
	}
	mobile = mobile[len(mobile)-10:]

	appointments, err := f.appointmentRepo.FindByMobile(ctx, entity.AppointmentFilter{
		Mobile:      mobile,
		MatchSuffix: true,
		ExcludeStatuses: []entity.AppointmentStatus{
			entity.AppointmentStatusCancelled,
			entity.AppointmentStatusCompleted,
		},
		Limit: rescheduleLookupCap,
	})
	if err != nil {
		return step{}, err
	}

	switch len(appointments) {
	case 0:
		return endFlow("No active appointments found for this mobile number."), nil
	case 1:
		a := &appointments[0]
		return moveTo(entity.RescheduleConfirmState{Serial: a.SerialNumber}, fmt.Sprintf(
			"Found your appointment:\n\n"+
				"Serial Number: %s\n"+
				"👤 Patient: %s\n"+
				"👨‍⚕️ Doctor: %s\n"+
				"📅 Date: %s\n"+
				"⏰ Time: %s\n\n"+
				"Reply *yes* to reschedule or *no* to keep it as it is.",
			a.SerialNumber, a.PatientName, doctorName(a, unknownDoctor),
			a.AppointmentTime.Format(longDateFormat), a.AppointmentTime.Format(clockFormat))), nil
	}

	options := make([]entity.AppointmentOption, len(appointments))
	blocks := make([]string, len(appointments))
	for i := range appointments {
		o := converter.AppointmentToOption(&appointments[i], unknownDoctor)
		options[i] = o
		blocks[i] = fmt.Sprintf("%d. Serial: *%s*\n   👤 %s\n   👨‍⚕️ %s\n   📅 %s at %s",
			i+1, o.Serial, o.PatientName, o.DoctorName, o.Time.Format(longDateFormat), o.Time.Format(clockFormat))
	}

	return moveTo(entity.RescheduleChooseAppointmentState{Appointments: options}, fmt.Sprintf(
		"Found %d active appointment(s):\n\n%s\n\n"+
			"Please reply with the number (1-%d) to select the appointment you want to reschedule.",
		len(appointments), strings.Join(blocks, "\n\n"), len(appointments))), nil
}

func (f *rescheduleFlow) chooseAppointment(ctx context.Context, t turn, s entity.RescheduleChooseAppointmentState) (step, error) {
	n, ok := parseChoice(t.text)
	if !ok {
		return reprompt("Invalid input. Please reply with a number."), nil
	}
	if n < 1 || n > len(s.Appointments) {
		return reprompt(fmt.Sprintf("Please choose a number from 1 to %d.", len(s.Appointments))), nil
	}

	appointment, err := f.appointmentRepo.FindBySerial(ctx, s.Appointments[n-1].Serial)
	if err != nil {
		return step{}, err
	}
	if appointment == nil {
		return endFlow("Appointment no longer exists."), nil
	}

	return moveTo(entity.RescheduleConfirmState{Serial: appointment.SerialNumber}, fmt.Sprintf(
		"Selected:\n\n"+
			"Serial Number: %s\n"+
			"👤 Patient: %s\n"+
			"👨‍⚕️ Doctor: %s\n"+
			"📅 Date: %s\n"+
			"⏰ Time: %s\n\n"+
			"Reply 'yes' to reschedule or 'no' to abort.",
		appointment.SerialNumber, appointment.PatientName, doctorName(appointment, unknownDoctor),
		formatDate(appointment.AppointmentTime), appointment.AppointmentTime.Format(clockFormat))), nil
}

func (f *rescheduleFlow) awaitingSerial(ctx context.Context, t turn, _ entity.RescheduleAwaitingSerialState) (step, error) {
	if t.text == "" {
		return reprompt("Please send a valid serial number."), nil
	}

	appointment, err := f.appointmentRepo.FindBySerial(ctx, t.text)
	if err != nil {
		return step{}, err
	}
	if appointment == nil {
		return endFlow(fmt.Sprintf("No appointment found with serial '%s'.", t.text)), nil
	}
	if appointment.IsCancelled() || appointment.IsCompleted() {
		return endFlow(fmt.Sprintf("This appointment is already %s.", appointment.Status)), nil
	}
	if !appointment.HasDoctor() {
		return endFlow("Doctor not found. Please try again."), nil
	}

	return moveTo(entity.RescheduleConfirmState{Serial: appointment.SerialNumber}, fmt.Sprintf(
		"Found appointment:\n\n"+
			"Serial Number: %s\n"+
			"👤 Patient: %s\n"+
			"👨‍⚕️ Doctor: %s\n"+
			"Speciality: %s\n"+
			"📅 Date: %s\n"+
			"⏰Time: %s\n\n"+
			"Reply 'yes' to reschedule or 'no' to abort.",
		appointment.SerialNumber, appointment.PatientName, appointment.Doctor.Name, appointment.Doctor.Speciality,
		formatDate(appointment.AppointmentTime), appointment.AppointmentTime.Format(clockFormat))), nil
}

func (f *rescheduleFlow) confirmReschedule(_ context.Context, t turn, s entity.RescheduleConfirmState) (step, error) {
	switch {
	case t.is("yes", "y", "confirm"):
		return moveTo(entity.RescheduleDateState{Serial: s.Serial}, "Please provide the new date (YYYY-MM-DD format)"), nil
	case t.is("no", "n", "abort"):
		return endFlow("Rescheduling cancelled. Your original appointment remains unchanged."), nil
	default:
		return reprompt("Please reply 'yes' to confirm or 'no' to abort."), nil
	}
}

func (f *rescheduleFlow) date(_ context.Context, t turn, s entity.RescheduleDateState) (step, error) {
	d, problem := f.schedule.visitDate(t.text)
	switch problem {
	case dateMalformed:
		return reprompt("Invalid date format. Use YYYY-MM-DD."), nil
	case dateInPast:
		return reprompt("Cannot select past date."), nil
	}
	return moveTo(entity.RescheduleTimeState{Serial: s.Serial, Date: d},
		"Please choose preferred slot:\n\n"+shiftMenu+"\n\nType 1 or 2"), nil
}

func (f *rescheduleFlow) time(_ context.Context, t turn, s entity.RescheduleTimeState) (step, error) {
	shift, slots, ok := pickShift(t.text)
	if !ok {
		return reprompt("Please type 1 for Morning or 2 for Evening."), nil
	}
	next := entity.RescheduleSlotChoiceState{Serial: s.Serial, Date: s.Date, Shift: shift, Slots: slots}
	return moveTo(next, fmt.Sprintf("%s slots:\n\n%s\n\nReply with the number.", shift, numberedList(slots))), nil
}

func (f *rescheduleFlow) slotChoice(ctx context.Context, t turn, s entity.RescheduleSlotChoiceState) (step, error) {
	label, _, ok := pickSlot(t.text, s.Slots)
	if !ok {
		return reprompt("❌ Please enter a valid number for the slot."), nil
	}

	appointment, err := f.appointmentRepo.FindBySerial(ctx, s.Serial)
	if err != nil {
		return step{}, err
	}
	if appointment == nil {
		return endFlow("Appointment not found."), nil
	}
	if !appointment.HasDoctor() {
		return endFlow("Doctor not found."), nil
	}

	previous := appointmentSnapshot(appointment)
	newTime := f.schedule.slotTime(s.Date, label)
	if err := f.appointmentRepo.UpdateTime(ctx, appointment.ID, newTime, entity.AppointmentStatusPending); err != nil {
		return step{}, err
	}
	appointment.AppointmentTime = newTime
	appointment.Status = entity.AppointmentStatusPending
	f.auditUpdate(ctx, t.userID, entity.AuditActionAppointmentReschedule, appointment.SerialNumber,
		previous, appointmentSnapshot(appointment))

	next := entity.RescheduleConfirmationState{Serial: s.Serial, AppointmentID: appointment.ID, Slot: label}
	return moveTo(next, fmt.Sprintf(
		"Appointment tentatively rescheduled:\n\n"+
			"👨‍⚕️ Doctor: %s\n"+
			"📅 Date: %s\n"+
			"⏰ Time: %s\n\n\n"+
			"Reply 'confirm' to finalize or 'no' to abort.",
		appointment.Doctor.Name, formatDate(newTime), label)), nil
}

// confirmation: "no" puts the status back to Confirmed whatever it was before
// and keeps the new time.
func (f *rescheduleFlow) confirmation(ctx context.Context, t turn, s entity.RescheduleConfirmationState) (step, error) {
	confirm, abort := t.is("confirm", "yes", "y"), t.is("no", "n")
	if !confirm && !abort {
		return reprompt("❌ Please reply with 'confirm' or 'no'. Type 'restart' if needed."), nil
	}

	appointment, err := f.appointmentRepo.FindByID(ctx, s.AppointmentID)
	if err != nil {
		return step{}, err
	}
	if appointment == nil {
		return endFlow("Error retrieving appointment. Please type 'restart'."), nil
	}

	if err := f.appointmentRepo.UpdateStatus(ctx, appointment.ID, entity.AppointmentStatusConfirmed); err != nil {
		return step{}, persistence(err)
	}

	if abort {
		f.auditUpdate(ctx, t.userID, entity.AuditActionAppointmentRescheduleAbort, appointment.SerialNumber,
			map[string]interface{}{"status": appointment.Status},
			map[string]interface{}{"status": entity.AppointmentStatusConfirmed})
		return endFlow("Rescheduling cancelled. The original appointment remains unchanged."), nil
	}

	f.auditUpdate(ctx, t.userID, entity.AuditActionAppointmentRescheduleConfirm, appointment.SerialNumber,
		map[string]interface{}{"status": appointment.Status},
		map[string]interface{}{"status": entity.AppointmentStatusConfirmed})

	if !appointment.HasDoctor() {
		return endFlow("❌ Doctor not found. Please type 'restart'."), nil
	}

	summary := fmt.Sprintf(
		"✅ Appointment Rescheduled!\n\n"+
			" Serial Number: %s\n"+
			"👤 Patient: %s\n"+
			"👨‍⚕️ Doctor: %s\n"+
			"📅 Date: %s\n"+
			"⏰ Time: %s\n"+
			"💰 Fee: %s\n\n",
		appointment.SerialNumber, appointment.PatientName, appointment.Doctor.Name,
		formatDate(appointment.AppointmentTime), s.Slot, formatFee(appointment.Fee))

	sendErr := f.notify(ctx, notifyRescheduleConfirmation, appointment.PatientEmail,
		"Appointment Reschedule Confirmation - HealthBot", summary+emailFooter)

	return endFlow(summary + emailStatus(sendErr)), nil
}
