package repository

import (
	"context"

	"go-healthbot/internal/domain/entity"
)

// SessionRepository holds one Session per user id. Implementations make
// individual calls safe for concurrent use but do not serialize a
// Get-then-Save sequence: two turns for the same user race and the last
// Save wins.
type SessionRepository interface {
	Get(ctx context.Context, userID string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, userID string) error
}
