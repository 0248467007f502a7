package ports

import (
	"context"

	"github.com/relaydeck/coordinator/internal/domain"
)

type TimelineRepository interface {
	Create(ctx context.Context, event *domain.TimelineEvent) error
	GetRecent(ctx context.Context, limit int) ([]domain.TimelineEvent, error)
	GetByAgent(ctx context.Context, agentID string, limit int) ([]domain.TimelineEvent, error)
}
