package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"go-healthbot/internal/delivery/dto"
	"go-healthbot/internal/domain/entity"
	"go-healthbot/internal/domain/repository"
	"go-healthbot/internal/infrastructure/metrics"
	"go-healthbot/internal/service"

	"github.com/sirupsen/logrus"
)

// Turn outcomes, used as a metrics label
const (
	outcomeCommand   = "command"
	outcomeAdvice    = "advice"
	outcomeNoSession = "no_session"
	outcomeReset     = "reset"
	outcomeReprompt  = "reprompt"
	outcomeAdvanced  = "advanced"
	outcomeEnded     = "ended"
	outcomeError     = "error"
)

type ChatUsecase interface {
	HandleTurn(ctx context.Context, request *dto.ChatRequest) *dto.ChatResponse
	// Wait blocks until notifications sent after a reply have finished.
	Wait()
}

type chatUsecase struct {
	log         *logrus.Logger
	sessionRepo repository.SessionRepository
	advice      *service.HealthAdviceService
	metrics     *metrics.ChatMetrics

	deps         *flowDeps
	booking      *bookingFlow
	cancellation *cancellationFlow
	reschedule   *rescheduleFlow

	table   map[stateKey]stageHandler
	engines map[entity.Flow]flowEngine

	now  func() time.Time
	pick func(n int) int
}

// NewChatUsecase panics when the flow engines leave a dispatchable stage
// without a handler.
func NewChatUsecase(
	log *logrus.Logger,
	sessionRepo repository.SessionRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	notifier service.Notifier,
	auditService service.AuditService,
	advice *service.HealthAdviceService,
	chatMetrics *metrics.ChatMetrics,
) ChatUsecase {
	u := &chatUsecase{
		log:         log,
		sessionRepo: sessionRepo,
		advice:      advice,
		metrics:     chatMetrics,
		now:         time.Now,
		pick:        rand.IntN,
	}

	deps := &flowDeps{
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		auditService:    auditService,
		metrics:         chatMetrics,
		schedule:        scheduler{now: func() time.Time { return u.now() }, log: log},
	}
	u.deps = deps
	u.booking = newBookingFlow(deps)
	u.cancellation = newCancellationFlow(deps)
	u.reschedule = newRescheduleFlow(deps)
	u.table, u.engines = buildTable(u.booking, u.cancellation, u.reschedule)

	return u
}

func (u *chatUsecase) HandleTurn(ctx context.Context, request *dto.ChatRequest) *dto.ChatResponse {
	userID := strings.TrimSpace(request.UserID)
	if userID == "" {
		userID = dto.DefaultUserID
	}
	t := newTurn(userID, request.Message)
	log := u.log.WithFields(logrus.Fields{"user_id": userID, "message": t.text})

	if reply, ok := u.command(ctx, log, t); ok {
		return &dto.ChatResponse{Response: reply}
	}

	session, err := u.sessionRepo.Get(ctx, userID)
	if errors.Is(err, entity.ErrUnknownSessionState) || errors.Is(err, entity.ErrMalformedSession) {
		log.Infof("Discarding undecodable session: %v", err)
		u.clear(ctx, log, userID)
		u.metrics.ObserveTurn(string(entity.FlowNone), outcomeReset)
		return &dto.ChatResponse{Response: menuText}
	}
	if err != nil {
		log.Warnf("Failed to load session: %+v", err)
		u.metrics.ObserveTurn(string(entity.FlowNone), outcomeError)
		return &dto.ChatResponse{Response: sessionErrorReply}
	}
	if session == nil {
		log.Debug("No session, replying with menu")
		u.metrics.ObserveTurn(string(entity.FlowNone), outcomeNoSession)
		return &dto.ChatResponse{Response: menuText}
	}

	log = log.WithFields(logrus.Fields{"flow": session.Flow(), "stage": session.Stage()})

	handle, ok := u.table[stateKey{session.Flow(), session.Stage()}]
	if !ok {
		log.Info("Session stage is not dispatchable, discarding session")
		u.clear(ctx, log, userID)
		u.metrics.ObserveTurn(string(session.Flow()), outcomeReset)
		return &dto.ChatResponse{Response: menuText}
	}

	return &dto.ChatResponse{Response: u.dispatch(ctx, log, t, session, handle)}
}

// command handles the global commands. They win over any in-flow stage.
func (u *chatUsecase) command(ctx context.Context, log *logrus.Entry, t turn) (string, bool) {
	switch {
	case t.is("hi", "hello", "hey"), t.is("restart"):
		u.clear(ctx, log, t.userID)
		log.Debug("Greeting, session cleared")
		u.metrics.ObserveTurn(string(entity.FlowNone), outcomeCommand)
		return u.greeting() + "\n\n" + menuText, true

	case t.is("help"):
		u.clear(ctx, log, t.userID)
		u.metrics.ObserveTurn(string(entity.FlowNone), outcomeCommand)
		return helpText, true

	case t.is("cancel", "cancel appointment"):
		return u.begin(ctx, log, t, u.cancellation), true

	case t.is("reschedule", "reschedule appointment"):
		return u.begin(ctx, log, t, u.reschedule), true

	case t.is("emergency"):
		u.clear(ctx, log, t.userID)
		u.metrics.ObserveTurn(string(entity.FlowNone), outcomeCommand)
		return emergencyText, true

	case strings.Contains(t.lower, "appointment"):
		return u.begin(ctx, log, t, u.booking), true

	case service.IsHealthQuery(t.text):
		reply, source := u.advice.Advise(ctx, t.text)
		log.WithField("source", source).Debug("Health query answered")
		u.metrics.ObserveAdvice(source)
		u.metrics.ObserveTurn(string(entity.FlowNone), outcomeAdvice)
		return reply, true
	}
	return "", false
}

// begin replaces whatever session the user had with the engine's start state.
func (u *chatUsecase) begin(ctx context.Context, log *logrus.Entry, t turn, engine flowEngine) string {
	state, prompt := engine.start()
	if err := u.save(ctx, t.userID, state); err != nil {
		log.Warnf("Failed to start %s flow: %+v", engine.flow(), err)
		u.metrics.ObserveTurn(string(engine.flow()), outcomeError)
		return sessionErrorReply
	}
	log.WithField("flow", engine.flow()).Debug("Flow started")
	u.metrics.ObserveTurn(string(engine.flow()), outcomeCommand)
	return prompt
}

func (u *chatUsecase) dispatch(ctx context.Context, log *logrus.Entry, t turn, session *entity.Session, handle stageHandler) string {
	flow := session.Flow()
	engine := u.engines[flow]

	result, err := handle(ctx, t, session.State)
	if err != nil {
		var se *storeError
		if errors.As(err, &se) {
			log.Errorf("Failed to write appointment: %+v", err)
		} else {
			log.Warnf("Failed to handle turn: %+v", err)
		}
		u.clear(ctx, log, t.userID)
		u.metrics.ObserveTurn(string(flow), outcomeError)
		return engine.onError(err)
	}

	switch {
	case result.end:
		u.clear(ctx, log, t.userID)
		log.Debug("Flow ended")
		u.metrics.ObserveTurn(string(flow), outcomeEnded)
	case result.next != nil:
		if err := u.save(ctx, t.userID, result.next); err != nil {
			log.Warnf("Failed to save session: %+v", err)
			u.metrics.ObserveTurn(string(flow), outcomeError)
			return sessionErrorReply
		}
		log.WithField("next_stage", result.next.Stage()).Debug("Stage advanced")
		u.metrics.ObserveTurn(string(flow), outcomeAdvanced)
	default:
		log.Debug("Re-prompting")
		u.metrics.ObserveTurn(string(flow), outcomeReprompt)
	}

	return result.reply
}

func (u *chatUsecase) Wait() {
	u.deps.wait()
}

func (u *chatUsecase) save(ctx context.Context, userID string, state entity.SessionState) error {
	return u.sessionRepo.Save(ctx, &entity.Session{UserID: userID, State: state, UpdatedAt: u.now()})
}

// clear never fails the turn; a session that outlives a failed delete is
// caught by the next turn's guard or overwritten by the next flow start.
func (u *chatUsecase) clear(ctx context.Context, log *logrus.Entry, userID string) {
	if err := u.sessionRepo.Delete(ctx, userID); err != nil {
		log.Warnf("Failed to delete session: %+v", err)
	}
}

func (u *chatUsecase) greeting() string {
	return greetings[u.pick(len(greetings))]
}
