package usecase

import (
	"context"
	"sync"
	"time"

	"go-healthbot/internal/domain/entity"
	"go-healthbot/internal/domain/repository"
	"go-healthbot/internal/infrastructure/metrics"
	"go-healthbot/internal/service"

	"github.com/sirupsen/logrus"
)

const (
	auditEntityAppointment = "appointment"

	// upper bound for a notification sent after the reply has gone out
	backgroundNotifyTimeout = 30 * time.Second
)

// Notification kinds, used as a metrics label
const (
	notifyBookingConfirmation    = "booking_confirmation"
	notifyRescheduleConfirmation = "reschedule_confirmation"
	notifyCancellation           = "cancellation"
)

// flowDeps are the collaborators every flow engine shares
type flowDeps struct {
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	notifier        service.Notifier
	auditService    service.AuditService
	metrics         *metrics.ChatMetrics
	schedule        scheduler

	background sync.WaitGroup
}

// notifyAsync sends once the turn has returned. The send outlives the request
// context but is bounded by backgroundNotifyTimeout.
func (d *flowDeps) notifyAsync(ctx context.Context, kind, to, subject, body string) {
	d.background.Add(1)
	go func() {
		defer d.background.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundNotifyTimeout)
		defer cancel()
		_ = d.notify(sendCtx, kind, to, subject, body)
	}()
}

// wait blocks until every background notification has finished.
func (d *flowDeps) wait() {
	d.background.Wait()
}

// notify never fails the turn; the error is returned so callers can word the reply.
func (d *flowDeps) notify(ctx context.Context, kind, to, subject, body string) error {
	var err error
	if d.notifier == nil {
		err = service.ErrNotifierDisabled
	} else {
		err = d.notifier.Send(ctx, to, subject, body)
	}
	d.metrics.ObserveNotification(kind, err)
	if err != nil {
		d.log.WithFields(logrus.Fields{"kind": kind, "to": to}).Warnf("Failed to send notification: %+v", err)
	}
	return err
}

func appointmentSnapshot(a *entity.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"serial_number":    a.SerialNumber,
		"status":           a.Status,
		"appointment_time": a.AppointmentTime,
		"doctor_id":        a.DoctorID,
	}
}

// Audit failures are logged by the service and never change the turn.

func (d *flowDeps) auditCreate(ctx context.Context, actor, action string, a *entity.Appointment) {
	if d.auditService == nil {
		return
	}
	_ = d.auditService.LogCreate(ctx, actor, action, auditEntityAppointment, a.SerialNumber, appointmentSnapshot(a))
}

func (d *flowDeps) auditUpdate(ctx context.Context, actor, action string, serial string, oldValue, newValue interface{}) {
	if d.auditService == nil {
		return
	}
	_ = d.auditService.LogUpdate(ctx, actor, action, auditEntityAppointment, serial, oldValue, newValue)
}

func (d *flowDeps) auditDelete(ctx context.Context, actor, action string, a *entity.Appointment) {
	if d.auditService == nil {
		return
	}
	_ = d.auditService.LogDelete(ctx, actor, action, auditEntityAppointment, a.SerialNumber, appointmentSnapshot(a))
}
