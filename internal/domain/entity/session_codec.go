package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownSessionState = errors.New("unknown session state")
	ErrMalformedSession    = errors.New("malformed session")
)

type stateKey struct {
	flow  Flow
	stage Stage
}

type stateDecoder func(data []byte) (SessionState, error)

var stateDecoders = map[stateKey]stateDecoder{}

func registerState[S SessionState]() {
	var zero S
	stateDecoders[stateKey{zero.Flow(), zero.Stage()}] = func(data []byte) (SessionState, error) {
		var s S
		if len(data) > 0 {
			if err := json.Unmarshal(data, &s); err != nil {
				return nil, err
			}
		}
		return s, nil
	}
}

func init() {
	registerState[BookingNameState]()
	registerState[BookingEmailState]()
	registerState[BookingMobileState]()
	registerState[BookingSpecialityState]()
	registerState[BookingChooseDoctorState]()
	registerState[BookingDateState]()
	registerState[BookingTimeState]()
	registerState[BookingSlotChoiceState]()
	registerState[BookingConfirmationState]()
	registerState[BookingDoneState]()
	registerState[BookingDeclinedState]()

	registerState[CancelChooseMethodState]()
	registerState[CancelAwaitingMobileState]()
	registerState[CancelAwaitingSerialState]()
	registerState[CancelChooseAppointmentState]()
	registerState[CancelConfirmState]()

	registerState[RescheduleChooseMethodState]()
	registerState[RescheduleAwaitingMobileState]()
	registerState[RescheduleAwaitingSerialState]()
	registerState[RescheduleChooseAppointmentState]()
	registerState[RescheduleConfirmState]()
	registerState[RescheduleDateState]()
	registerState[RescheduleTimeState]()
	registerState[RescheduleSlotChoiceState]()
	registerState[RescheduleConfirmationState]()
}

// sessionEnvelope is the wire form of a Session: the variant tag plus its payload
type sessionEnvelope struct {
	UserID    string          `json:"user_id"`
	Flow      Flow            `json:"flow"`
	Stage     Stage           `json:"stage"`
	Data      json.RawMessage `json:"data,omitempty"`
	UpdatedAt int64           `json:"updated_at"`
}

// MarshalSession encodes a session with its state variant tag.
func MarshalSession(s *Session) ([]byte, error) {
	if s == nil || s.State == nil {
		return nil, ErrUnknownSessionState
	}
	data, err := json.Marshal(s.State)
	if err != nil {
		return nil, fmt.Errorf("marshal %s/%s state: %w", s.Flow(), s.Stage(), err)
	}
	return json.Marshal(sessionEnvelope{
		UserID:    s.UserID,
		Flow:      s.Flow(),
		Stage:     s.Stage(),
		Data:      data,
		UpdatedAt: s.UpdatedAt.UnixMilli(),
	})
}

// UnmarshalSession decodes what MarshalSession produced. Unknown (flow, stage)
// tags yield ErrUnknownSessionState and undecodable payloads ErrMalformedSession.
func UnmarshalSession(raw []byte) (*Session, error) {
	var env sessionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}

	decode, ok := stateDecoders[stateKey{env.Flow, env.Stage}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownSessionState, env.Flow, env.Stage)
	}
	state, err := decode(env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s state: %v", ErrMalformedSession, env.Flow, env.Stage, err)
	}

	return &Session{
		UserID:    env.UserID,
		State:     state,
		UpdatedAt: time.UnixMilli(env.UpdatedAt),
	}, nil
}
