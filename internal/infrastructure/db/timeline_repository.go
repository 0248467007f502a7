package db

import (
	"context"

	"github.com/relaydeck/coordinator/internal/core/ports"
	"github.com/relaydeck/coordinator/internal/domain"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type timelineRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimelineRepository(db *gorm.DB, log *logger.Logger) ports.TimelineRepository {
	return &timelineRepository{
		db:  db,
		log: log,
	}
}

func (r *timelineRepository) Create(ctx context.Context, event *domain.TimelineEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		r.log.Errorw("timeline_repo_create_failed", "type", event.Type, "error", err)
		return err
	}
	return nil
}

func (r *timelineRepository) GetRecent(ctx context.Context, limit int) ([]domain.TimelineEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []domain.TimelineEvent
	err := r.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		r.log.Errorw("timeline_repo_list_failed", "error", err)
		return nil, err
	}
	return events, nil
}

func (r *timelineRepository) GetByAgent(ctx context.Context, agentID string, limit int) ([]domain.TimelineEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []domain.TimelineEvent
	err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		r.log.Errorw("timeline_repo_get_by_agent_failed", "agent_id", agentID, "error", err)
		return nil, err
	}
	return events, nil
}
