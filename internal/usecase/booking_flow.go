package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-healthbot/internal/domain/entity"
	"go-healthbot/pkg/validator"
)

var specialityMenu = []entity.Speciality{
	entity.SpecialityGeneralPhysician,
	entity.SpecialityCardiologist,
	entity.SpecialityGastroenterologist,
	entity.SpecialityDermatologist,
}

// specialityFor maps the exact menu number ("1".."4") to its speciality
func specialityFor(text string) (entity.Speciality, bool) {
	for i, sp := range specialityMenu {
		if text == strconv.Itoa(i+1) {
			return sp, true
		}
	}
	return "", false
}

const bookingFallbackReply = "⚠️ Something went wrong. Please type 'restart' to start booking again."

type bookingFlow struct {
	*flowDeps
}

func newBookingFlow(deps *flowDeps) *bookingFlow {
	return &bookingFlow{flowDeps: deps}
}

func (f *bookingFlow) flow() entity.Flow { return entity.FlowBook }

func (f *bookingFlow) start() (entity.SessionState, string) {
	return entity.BookingNameState{}, "What is your name?"
}

func (f *bookingFlow) onError(err error) string {
	var se *storeError
	if errors.As(err, &se) {
		return databaseErrorReply(se.err)
	}
	return bookingFallbackReply
}

func (f *bookingFlow) handlers() []handlerEntry {
	return []handlerEntry{
		on(f.name),
		on(f.email),
		on(f.mobile),
		on(f.speciality),
		on(f.chooseDoctor),
		on(f.date),
		on(f.time),
		on(f.slotChoice),
		on(f.confirmation),
	}
}

func (f *bookingFlow) name(_ context.Context, t turn, _ entity.BookingNameState) (step, error) {
	if !validator.ValidateName(t.text) {
		return reprompt("❌ Invalid name. Use only letters & spaces (min 2 chars)."), nil
	}
	return moveTo(entity.BookingEmailState{Name: t.text},
		fmt.Sprintf("Thanks %s! Please provide your email ID.", t.text)), nil
}

func (f *bookingFlow) email(_ context.Context, t turn, s entity.BookingEmailState) (step, error) {
	if !validator.ValidateEmail(t.text) {
		return reprompt("❌ Invalid email. Please provide a correct format (example@domain.com)."), nil
	}
	return moveTo(entity.BookingMobileState{Name: s.Name, Email: t.text},
		"Please enter your mobile number."), nil
}

func (f *bookingFlow) mobile(_ context.Context, t turn, s entity.BookingMobileState) (step, error) {
	if !validator.ValidateMobile(t.text) {
		return reprompt("❌ Invalid mobile. Enter a 10-digit number starting with 6,7,8,9."), nil
	}

	options := make([]string, len(specialityMenu))
	for i, sp := range specialityMenu {
		options[i] = string(sp)
	}
	next := entity.BookingSpecialityState{
		Patient: entity.PatientDetails{Name: s.Name, Email: s.Email, Mobile: t.text},
	}
	return moveTo(next, "Please select your speciality by typing the number:\n\n"+numberedList(options)), nil
}

func (f *bookingFlow) speciality(ctx context.Context, t turn, s entity.BookingSpecialityState) (step, error) {
	speciality, ok := specialityFor(t.text)
	if !ok {
		lines := make([]string, len(specialityMenu))
		for i, sp := range specialityMenu {
			lines[i] = fmt.Sprintf("%d → %s", i+1, sp)
		}
		return reprompt("Invalid selection!\n\nPlease type only:\n" + strings.Join(lines, "\n")), nil
	}

	doctors, err := f.doctorRepo.FindBySpeciality(ctx, speciality)
	if err != nil {
		return step{}, persistence(err)
	}
	if len(doctors) == 0 {
		return reprompt("❌ No doctors available for this symptom at the moment."), nil
	}

	options := make([]entity.DoctorOption, len(doctors))
	lines := make([]string, len(doctors))
	for i, d := range doctors {
		options[i] = entity.DoctorOption{ID: d.ID, Name: d.Name, Speciality: d.Speciality}
		lines[i] = fmt.Sprintf("%s (%s)", d.Name, d.Speciality)
	}

	next := entity.BookingChooseDoctorState{Patient: s.Patient, Speciality: speciality, Doctors: options}
	return moveTo(next, "Please choose a doctor by entering the number:\n"+numberedList(lines)), nil
}

func (f *bookingFlow) chooseDoctor(_ context.Context, t turn, s entity.BookingChooseDoctorState) (step, error) {
	if len(s.Doctors) == 0 {
		return reprompt("❌ No doctors available. Please restart."), nil
	}
	if !isDigits(t.text) {
		return reprompt("❌ Please enter a valid number from the list."), nil
	}
	n, _ := parseChoice(t.text)
	if n < 1 || n > len(s.Doctors) {
		return reprompt("❌ Invalid number. Please choose a number from the list."), nil
	}

	doctor := s.Doctors[n-1]
	next := entity.BookingDateState{Draft: entity.BookingDraft{
		Patient:    s.Patient,
		Speciality: s.Speciality,
		DoctorID:   doctor.ID,
		DoctorName: doctor.Name,
	}}
	return moveTo(next, fmt.Sprintf("Great choice 👍 %s.\nPlease provide appointment date (YYYY-MM-DD).", doctor.Name)), nil
}

func (f *bookingFlow) date(_ context.Context, t turn, s entity.BookingDateState) (step, error) {
	d, problem := f.schedule.visitDate(t.text)
	switch problem {
	case dateMalformed:
		return reprompt("❌ Invalid date format. Use YYYY-MM-DD."), nil
	case dateInPast:
		return reprompt("❌ Invalid date. Please enter a valid date in (YYYY-MM-DD) format."), nil
	}
	return moveTo(entity.BookingTimeState{Draft: s.Draft, Date: d},
		"Thanks. Please choose your preferred slot:\n\n"+shiftMenu+"\n\nType 1 for Morning or 2 for Evening."), nil
}

func (f *bookingFlow) time(_ context.Context, t turn, s entity.BookingTimeState) (step, error) {
	shift, slots, ok := pickShift(t.text)
	if !ok {
		return reprompt("❌ Invalid option. Please type:\n" +
			"1️⃣ for Morning (09:00 – 12:00)\n" +
			"2️⃣ for Evening (16:00 – 19:00)"), nil
	}
	next := entity.BookingSlotChoiceState{Draft: s.Draft, Date: s.Date, Shift: shift, Slots: slots}
	return moveTo(next, fmt.Sprintf("✅ You selected %s shift.\n\nPlease choose a time slot:\n%s\n\nReply with the slot number.",
		shift, numberedList(slots))), nil
}

func (f *bookingFlow) slotChoice(ctx context.Context, t turn, s entity.BookingSlotChoiceState) (step, error) {
	label, numeric, ok := pickSlot(t.text, s.Slots)
	if !numeric {
		return reprompt("❌ Please enter a valid number for the slot."), nil
	}
	if !ok {
		return reprompt(fmt.Sprintf("❌ Invalid slot number. Please choose 1–%d.", len(s.Slots))), nil
	}

	doctor, err := f.doctorRepo.FindByID(ctx, s.Draft.DoctorID)
	if err != nil {
		return step{}, persistence(err)
	}
	if doctor == nil {
		return endFlow("❌ Doctor not found. Please type 'restart'."), nil
	}

	appointment := &entity.Appointment{
		PatientName:     s.Draft.Patient.Name,
		PatientEmail:    s.Draft.Patient.Email,
		PatientMobile:   s.Draft.Patient.Mobile,
		Speciality:      s.Draft.Speciality,
		DoctorID:        doctor.ID,
		AppointmentTime: f.schedule.slotTime(s.Date, label),
		Fee:             doctor.ConsultationFee,
		Status:          entity.AppointmentStatusPending,
	}
	if err := f.appointmentRepo.Create(ctx, appointment); err != nil {
		return step{}, persistence(err)
	}
	f.auditCreate(ctx, t.userID, entity.AuditActionAppointmentCreate, appointment)

	next := entity.BookingConfirmationState{Draft: s.Draft, Date: s.Date, Slot: label, AppointmentID: appointment.ID}
	return moveTo(next, fmt.Sprintf(
		"⏰ Your appointment is tentatively booked for %s at %s.\n\n"+
			"👤 Patient: %s\n"+
			"👨‍⚕️ Doctor: %s\n"+
			"💰 Fee: %s\n\n"+
			"Reply 'confirm' to finalize or 'no' to cancel.",
		formatDate(s.Date), label, s.Draft.Patient.Name, doctor.Name, formatFee(doctor.ConsultationFee))), nil
}

func (f *bookingFlow) confirmation(ctx context.Context, t turn, s entity.BookingConfirmationState) (step, error) {
	switch {
	case t.is("confirm", "yes", "y"):
		return f.confirm(ctx, t, s)
	case t.is("no", "n"):
		return f.decline(ctx, t, s)
	default:
		return reprompt("❌ Please reply with 'confirm' or 'no'. Type 'restart' if needed."), nil
	}
}

func (f *bookingFlow) confirm(ctx context.Context, t turn, s entity.BookingConfirmationState) (step, error) {
	appointment, err := f.appointmentRepo.FindByID(ctx, s.AppointmentID)
	if err != nil {
		return step{}, persistence(err)
	}
	if appointment == nil {
		return endFlow("Error retrieving appointment. Please type 'restart'."), nil
	}

	previous := appointment.Status
	if err := f.appointmentRepo.UpdateStatus(ctx, appointment.ID, entity.AppointmentStatusConfirmed); err != nil {
		return step{}, persistence(err)
	}
	appointment.Status = entity.AppointmentStatusConfirmed
	f.auditUpdate(ctx, t.userID, entity.AuditActionAppointmentConfirm, appointment.SerialNumber,
		map[string]interface{}{"status": previous}, map[string]interface{}{"status": appointment.Status})

	summary := fmt.Sprintf(
		"✅ Appointment Confirmed!\n\n"+
			" Serial Number: %s\n"+
			"👤 Patient: %s\n"+
			"👨‍⚕️ Doctor: %s\n"+
			"📅 Date: %s\n"+
			"⏰ Time: %s\n"+
			"💰 Fee: %s\n\n",
		appointment.SerialNumber, appointment.PatientName, doctorName(appointment, s.Draft.DoctorName),
		formatDate(appointment.AppointmentTime), s.Slot, formatFee(appointment.Fee))

	sendErr := f.notify(ctx, notifyBookingConfirmation, appointment.PatientEmail,
		"Appointment Confirmation - HealthBot", summary+emailFooter)

	return moveTo(entity.BookingDoneState{}, summary+emailStatus(sendErr)), nil
}

func (f *bookingFlow) decline(ctx context.Context, t turn, s entity.BookingConfirmationState) (step, error) {
	appointment, err := f.appointmentRepo.FindByID(ctx, s.AppointmentID)
	if err != nil {
		return step{}, persistence(err)
	}
	if appointment != nil {
		if err := f.appointmentRepo.Delete(ctx, appointment.ID); err != nil {
			return step{}, persistence(err)
		}
		f.auditDelete(ctx, t.userID, entity.AuditActionAppointmentDecline, appointment)
	}
	return moveTo(entity.BookingDeclinedState{}, "❌ Appointment cancelled. You can type 'restart' to book again."), nil
}
