package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-healthbot/internal/domain/entity"
)

// turn is one inbound utterance as seen by a stage handler
type turn struct {
	userID string
	text   string // trimmed, original case
	lower  string // trimmed, lower-cased, for keyword comparisons
}

func newTurn(userID, message string) turn {
	text := strings.TrimSpace(message)
	return turn{userID: userID, text: text, lower: strings.ToLower(text)}
}

func (t turn) is(words ...string) bool {
	for _, w := range words {
		if t.lower == w {
			return true
		}
	}
	return false
}

// step is what a stage handler decided. The dispatcher applies it to the store.
type step struct {
	reply string
	next  entity.SessionState // nil keeps the current state
	end   bool                // clear the session
}

// reprompt keeps the session exactly as it was
func reprompt(reply string) step {
	return step{reply: reply}
}

func moveTo(next entity.SessionState, reply string) step {
	return step{reply: reply, next: next}
}

func endFlow(reply string) step {
	return step{reply: reply, end: true}
}

type stageHandler func(ctx context.Context, t turn, state entity.SessionState) (step, error)

type stateKey struct {
	flow  entity.Flow
	stage entity.Stage
}

// handlerEntry binds a handler to the (flow, stage) of its state type
type handlerEntry struct {
	key    stateKey
	handle stageHandler
}

// on adapts a handler typed on one state variant. The key comes from the
// variant's zero value, so a handler cannot be registered under the wrong stage.
func on[S entity.SessionState](fn func(ctx context.Context, t turn, state S) (step, error)) handlerEntry {
	var zero S
	return handlerEntry{
		key: stateKey{zero.Flow(), zero.Stage()},
		handle: func(ctx context.Context, t turn, state entity.SessionState) (step, error) {
			s, ok := state.(S)
			if !ok {
				return step{}, fmt.Errorf("%w: got %T for %s/%s", errStateMismatch, state, zero.Flow(), zero.Stage())
			}
			return fn(ctx, t, s)
		},
	}
}

var errStateMismatch = errors.New("session state does not match handler")

// flowEngine is one of the booking, cancellation and rescheduling machines.
type flowEngine interface {
	flow() entity.Flow
	start() (entity.SessionState, string)
	handlers() []handlerEntry
	// onError turns a handler failure into the flow's terminal reply.
	onError(err error) string
}

// storeError marks a write the Record Store rejected. Its detail is shown to the user.
type storeError struct {
	err error
}

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func persistence(err error) error {
	if err == nil {
		return nil
	}
	return &storeError{err: err}
}

func databaseErrorReply(err error) string {
	return fmt.Sprintf("❌ Database error: %s. Please type 'restart'.", err)
}

// buildTable indexes every engine's handlers and checks that each legal stage
// has exactly one handler and that no handler sits outside a legal stage.
func buildTable(engines ...flowEngine) (map[stateKey]stageHandler, map[entity.Flow]flowEngine) {
	table := make(map[stateKey]stageHandler)
	byFlow := make(map[entity.Flow]flowEngine)

	for _, engine := range engines {
		if _, dup := byFlow[engine.flow()]; dup {
			panic(fmt.Sprintf("usecase: flow %s registered twice", engine.flow()))
		}
		byFlow[engine.flow()] = engine

		for _, h := range engine.handlers() {
			if h.key.flow != engine.flow() {
				panic(fmt.Sprintf("usecase: %s engine registers a %s/%s handler", engine.flow(), h.key.flow, h.key.stage))
			}
			if !entity.IsLegalStage(h.key.flow, h.key.stage) {
				panic(fmt.Sprintf("usecase: handler for non-dispatchable stage %s/%s", h.key.flow, h.key.stage))
			}
			if _, dup := table[h.key]; dup {
				panic(fmt.Sprintf("usecase: duplicate handler for %s/%s", h.key.flow, h.key.stage))
			}
			table[h.key] = h.handle
		}

		for _, stage := range entity.FlowStages(engine.flow()) {
			if _, ok := table[stateKey{engine.flow(), stage}]; !ok {
				panic(fmt.Sprintf("usecase: no handler for %s/%s", engine.flow(), stage))
			}
		}
	}

	return table, byFlow
}

// parseChoice reads a 1-based menu pick; ok is false for anything non-numeric
func parseChoice(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
