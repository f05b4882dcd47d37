package repository

import (
	"context"
	"sync"

	"go-healthbot/internal/domain/entity"
	domainRepo "go-healthbot/internal/domain/repository"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

// NewMemorySessionRepository keeps sessions in process memory. They are lost on restart.
func NewMemorySessionRepository() domainRepo.SessionRepository {
	return &memorySessionRepository{sessions: make(map[string]entity.Session)}
}

func (r *memorySessionRepository) Get(_ context.Context, userID string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memorySessionRepository) Save(_ context.Context, session *entity.Session) error {
	if session == nil || session.State == nil {
		return entity.ErrUnknownSessionState
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.UserID] = *session
	return nil
}

func (r *memorySessionRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}
