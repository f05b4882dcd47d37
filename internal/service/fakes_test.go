package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"go-healthbot/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeNotifier struct {
	mu       sync.Mutex
	failures int // fail this many calls before succeeding
	calls    int
	block    bool
}

func (f *fakeNotifier) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

type fakeAuditRepo struct {
	logs []entity.AuditLog
	err  error
}

func (f *fakeAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeAuditRepo) FindByActor(ctx context.Context, actor string) ([]entity.AuditLog, error) {
	var out []entity.AuditLog
	for _, l := range f.logs {
		if l.Actor == actor {
			out = append(out, l)
		}
	}
	return out, nil
}
