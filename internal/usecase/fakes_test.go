package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"go-healthbot/internal/domain/entity"
	"go-healthbot/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var testDoctors = []entity.Doctor{
	{ID: 1, Name: "Dr. Jinni Joffer", Speciality: entity.SpecialityGeneralPhysician, ConsultationFee: decimal.NewFromInt(500)},
	{ID: 2, Name: "Dr. Hari Menon", Speciality: entity.SpecialityGeneralPhysician, ConsultationFee: decimal.NewFromInt(450)},
	{ID: 3, Name: "Dr. Kavya Iyer", Speciality: entity.SpecialityCardiologist, ConsultationFee: decimal.RequireFromString("1200.50")},
}

type fakeDoctorRepo struct {
	doctors []entity.Doctor
	err     error
}

func (f *fakeDoctorRepo) FindByID(ctx context.Context, id uint) (*entity.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.doctors {
		if f.doctors[i].ID == id {
			d := f.doctors[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepo) FindBySpeciality(ctx context.Context, speciality entity.Speciality) ([]entity.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.Doctor
	for _, d := range f.doctors {
		if d.Speciality == speciality {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDoctorRepo) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]entity.Doctor(nil), f.doctors...), nil
}

// fakeAppointmentRepo mimics the gorm implementation, doctor preload included.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	doctors      *fakeDoctorRepo
	rows         map[uint]*entity.Appointment
	nextID       uint
	createErr    error
	findErr      error
	updateErr    error
	updateStatus error
}

func newFakeAppointmentRepo(doctors *fakeDoctorRepo) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{doctors: doctors, rows: make(map[uint]*entity.Appointment)}
}

// seed stores a copy of a and returns its id
func (f *fakeAppointmentRepo) seed(a entity.Appointment) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.ID = f.nextID
	if a.SerialNumber == "" {
		a.SerialNumber = fmt.Sprintf("SN-%d", a.ID)
	}
	f.rows[a.ID] = &a
	return a.ID
}

func (f *fakeAppointmentRepo) get(id uint) *entity.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok {
		return nil
	}
	out := *a
	return &out
}

func (f *fakeAppointmentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *fakeAppointmentRepo) withDoctor(a entity.Appointment) *entity.Appointment {
	if d, _ := f.doctors.FindByID(context.Background(), a.DoctorID); d != nil {
		a.Doctor = *d
	}
	return &a
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	appointment.ID = f.seed(*appointment)
	appointment.SerialNumber = f.get(appointment.ID).SerialNumber
	return nil
}

func (f *fakeAppointmentRepo) FindByID(ctx context.Context, id uint) (*entity.Appointment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	a := f.get(id)
	if a == nil {
		return nil, nil
	}
	return f.withDoctor(*a), nil
}

func (f *fakeAppointmentRepo) FindBySerial(ctx context.Context, serial string) (*entity.Appointment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	var found *entity.Appointment
	for _, a := range f.rows {
		if a.SerialNumber == serial {
			c := *a
			found = &c
		}
	}
	f.mu.Unlock()
	if found == nil {
		return nil, nil
	}
	return f.withDoctor(*found), nil
}

func (f *fakeAppointmentRepo) FindByMobile(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	var out []entity.Appointment
	for _, a := range f.rows {
		match := a.PatientMobile == filter.Mobile
		if filter.MatchSuffix {
			match = strings.HasSuffix(a.PatientMobile, filter.Mobile)
		}
		if !match || excluded(a.Status, filter.ExcludeStatuses) {
			continue
		}
		out = append(out, *a)
	}
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime.After(out[j].AppointmentTime) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	for i := range out {
		out[i] = *f.withDoctor(out[i])
	}
	return out, nil
}

func excluded(status entity.AppointmentStatus, statuses []entity.AppointmentStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uint, status entity.AppointmentStatus) error {
	if f.updateStatus != nil {
		return f.updateStatus
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAppointmentRepo) UpdateTime(ctx context.Context, id uint, appointmentTime time.Time, status entity.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.AppointmentTime = appointmentTime
	a.Status = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(ctx context.Context, id uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok || a.Status == entity.AppointmentStatusCancelled {
		return 0, nil
	}
	a.Status = entity.AppointmentStatusCancelled
	return 1, nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type sentEmail struct {
	to, subject, body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: body})
	return f.err
}

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeAuditRepo) FindByActor(ctx context.Context, actor string) ([]entity.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.AuditLog
	for _, l := range f.logs {
		if l.Actor == actor {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.logs))
	for i, l := range f.logs {
		out[i] = l.Action
	}
	return out
}

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

var errSessionStore = errors.New("session store down")

type failingSessionRepo struct{}

func (failingSessionRepo) Get(ctx context.Context, userID string) (*entity.Session, error) {
	return nil, errSessionStore
}

func (failingSessionRepo) Save(ctx context.Context, session *entity.Session) error {
	return errSessionStore
}

func (failingSessionRepo) Delete(ctx context.Context, userID string) error {
	return errSessionStore
}
