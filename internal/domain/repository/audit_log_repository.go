package repository

import (
	"context"

	"go-healthbot/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	FindByActor(ctx context.Context, actor string) ([]entity.AuditLog, error)
}
