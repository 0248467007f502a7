package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/relaydeck/coordinator/internal/config"
	"github.com/relaydeck/coordinator/internal/core/ports"
	"github.com/relaydeck/coordinator/internal/domain"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) ports.TimelineRepository {
	t.Helper()

	database, err := NewSQLiteConnection(config.DatabaseConfig{DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, RunMigrations(database))
	t.Cleanup(func() { _ = Close(database) })

	return NewTimelineRepository(database, logger.NewNop())
}

func TestTimelineCreateAndGetRecent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		err := repo.Create(ctx, &domain.TimelineEvent{
			Type:      domain.EventTypeCommandSubmitted,
			AgentID:   "a1",
			CommandID: fmt.Sprintf("c%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	events, err := repo.GetRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "c2", events[0].CommandID, "newest first")
	assert.Equal(t, "c0", events[2].CommandID)
}

func TestTimelineGetRecentLimit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Create(ctx, &domain.TimelineEvent{
			Type:    domain.EventTypeAgentRegistered,
			AgentID: fmt.Sprintf("a%d", i),
		}))
	}

	events, err := repo.GetRecent(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, events, 4)
}

func TestTimelineGetByAgent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.TimelineEvent{
		Type:    domain.EventTypeAgentRegistered,
		AgentID: "a1",
	}))
	require.NoError(t, repo.Create(ctx, &domain.TimelineEvent{
		Type:    domain.EventTypeAgentRegistered,
		AgentID: "a2",
	}))
	require.NoError(t, repo.Create(ctx, &domain.TimelineEvent{
		Type:      domain.EventTypeCommandResolved,
		AgentID:   "a1",
		CommandID: "c1",
		Detail:    "success",
	}))

	events, err := repo.GetByAgent(ctx, "a1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, "a1", ev.AgentID)
	}

	events, err = repo.GetByAgent(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}
