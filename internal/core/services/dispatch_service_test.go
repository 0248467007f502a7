package services

import (
	"context"
	"testing"

	"github.com/relaydeck/coordinator/internal/domain"
	"github.com/relaydeck/coordinator/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatchFixture() (*DispatchService, *RegistryService, *QueueService) {
	registry := NewRegistryService(RegistryServiceConfig{})
	queue := NewQueueService()
	dispatch := NewDispatchService(DispatchServiceConfig{
		Registry: registry,
		Queue:    queue,
		Logger:   logger.NewNop(),
	})
	return dispatch, registry, queue
}

func TestDispatchRegister(t *testing.T) {
	dispatch, registry, _ := newDispatchFixture()

	res, err := dispatch.Handle(context.Background(), domain.DispatchEvent{
		Type:     domain.EventRegister,
		AgentID:  "a1",
		Hostname: "web-01",
		Platform: "linux",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Agent)
	assert.Equal(t, "a1", res.Agent.ID)
	assert.Equal(t, "web-01", res.Agent.Hostname)

	stored, err := registry.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, "web-01", stored.Hostname)
}

func TestDispatchRegisterMissingFields(t *testing.T) {
	dispatch, registry, _ := newDispatchFixture()

	for _, ev := range []domain.DispatchEvent{
		{Type: domain.EventRegister, Hostname: "h", Platform: "linux"},
		{Type: domain.EventRegister, AgentID: "a1", Platform: "linux"},
		{Type: domain.EventRegister, AgentID: "a1", Hostname: "h"},
	} {
		_, err := dispatch.Handle(context.Background(), ev)
		assert.ErrorIs(t, err, ErrInvalidEvent)
	}

	assert.Empty(t, registry.List(false), "rejected events must not mutate state")
}

func TestDispatchUnknownEventType(t *testing.T) {
	dispatch, _, _ := newDispatchFixture()

	_, err := dispatch.Handle(context.Background(), domain.DispatchEvent{Type: "reboot", AgentID: "a1"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestDispatchHeartbeatDeliversPending(t *testing.T) {
	dispatch, _, queue := newDispatchFixture()

	queue.Enqueue(domain.Command{ID: "c1", AgentID: "a1", Text: "uptime"})
	queue.Enqueue(domain.Command{ID: "c2", AgentID: "a1", Text: "whoami"})

	res, err := dispatch.Handle(context.Background(), domain.DispatchEvent{
		Type:    domain.EventHeartbeat,
		AgentID: "a1",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Commands, 2)
	assert.Equal(t, "c1", res.Commands[0].ID)
	assert.Equal(t, "c2", res.Commands[1].ID)
}

func TestDispatchHeartbeatUnknownAgent(t *testing.T) {
	dispatch, registry, _ := newDispatchFixture()

	// A heartbeat from an unregistered id still succeeds, with no commands
	// and no registry entry created.
	res, err := dispatch.Handle(context.Background(), domain.DispatchEvent{
		Type:    domain.EventHeartbeat,
		AgentID: "ghost",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Commands)
	assert.Empty(t, registry.List(false))
}

func TestDispatchHeartbeatMissingAgentID(t *testing.T) {
	dispatch, _, _ := newDispatchFixture()

	_, err := dispatch.Handle(context.Background(), domain.DispatchEvent{Type: domain.EventHeartbeat})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestDispatchResultResolvesCommand(t *testing.T) {
	dispatch, _, queue := newDispatchFixture()
	queue.Enqueue(domain.Command{ID: "c1", AgentID: "a1", Text: "uptime"})

	res, err := dispatch.Handle(context.Background(), domain.DispatchEvent{
		Type:      domain.EventResult,
		AgentID:   "a1",
		CommandID: "c1",
		Status:    domain.CommandStatusSuccess,
		Output:    "up 3 days\n",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)

	cmd, err := queue.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CommandStatusSuccess, cmd.Status)
	assert.Equal(t, "up 3 days\n", cmd.Output)
}

func TestDispatchResultDuplicateSucceeds(t *testing.T) {
	dispatch, _, queue := newDispatchFixture()
	queue.Enqueue(domain.Command{ID: "c1", AgentID: "a1", Text: "uptime"})

	ev := domain.DispatchEvent{
		Type:      domain.EventResult,
		AgentID:   "a1",
		CommandID: "c1",
		Status:    domain.CommandStatusError,
		Output:    "boom",
	}

	_, err := dispatch.Handle(context.Background(), ev)
	require.NoError(t, err)

	// Agents retry result delivery; the retry must look like success and
	// must not change the stored outcome.
	ev.Status = domain.CommandStatusSuccess
	ev.Output = "late"
	res, err := dispatch.Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, res.Success)

	cmd, err := queue.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CommandStatusError, cmd.Status)
	assert.Equal(t, "boom", cmd.Output)
}

func TestDispatchResultUnknownCommandSucceeds(t *testing.T) {
	dispatch, _, _ := newDispatchFixture()

	res, err := dispatch.Handle(context.Background(), domain.DispatchEvent{
		Type:      domain.EventResult,
		CommandID: "ghost",
		Status:    domain.CommandStatusSuccess,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestDispatchResultInvalidStatus(t *testing.T) {
	dispatch, _, queue := newDispatchFixture()
	queue.Enqueue(domain.Command{ID: "c1", AgentID: "a1", Text: "uptime"})

	for _, status := range []domain.CommandStatus{"", domain.CommandStatusPending, "done"} {
		_, err := dispatch.Handle(context.Background(), domain.DispatchEvent{
			Type:      domain.EventResult,
			CommandID: "c1",
			Status:    status,
		})
		assert.ErrorIs(t, err, ErrInvalidEvent)
	}

	cmd, err := queue.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CommandStatusPending, cmd.Status)
}

func TestDispatchResultMissingCommandID(t *testing.T) {
	dispatch, _, _ := newDispatchFixture()

	_, err := dispatch.Handle(context.Background(), domain.DispatchEvent{
		Type:   domain.EventResult,
		Status: domain.CommandStatusSuccess,
	})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

// TestDispatchLifecycle walks the full protocol exchange: register, idle
// heartbeat, submission, delivery, result, empty follow-up heartbeat.
func TestDispatchLifecycle(t *testing.T) {
	dispatch, _, queue := newDispatchFixture()
	ctx := context.Background()

	_, err := dispatch.Handle(ctx, domain.DispatchEvent{
		Type:     domain.EventRegister,
		AgentID:  "a1",
		Hostname: "web-01",
		Platform: "linux",
	})
	require.NoError(t, err)

	res, err := dispatch.Handle(ctx, domain.DispatchEvent{Type: domain.EventHeartbeat, AgentID: "a1"})
	require.NoError(t, err)
	assert.Empty(t, res.Commands)

	queue.Enqueue(domain.Command{ID: "c1", AgentID: "a1", Text: "uptime"})

	res, err = dispatch.Handle(ctx, domain.DispatchEvent{Type: domain.EventHeartbeat, AgentID: "a1"})
	require.NoError(t, err)
	require.Len(t, res.Commands, 1)
	assert.Equal(t, "uptime", res.Commands[0].Text)

	_, err = dispatch.Handle(ctx, domain.DispatchEvent{
		Type:      domain.EventResult,
		AgentID:   "a1",
		CommandID: "c1",
		Status:    domain.CommandStatusSuccess,
		Output:    "up 3 days\n",
	})
	require.NoError(t, err)

	res, err = dispatch.Handle(ctx, domain.DispatchEvent{Type: domain.EventHeartbeat, AgentID: "a1"})
	require.NoError(t, err)
	assert.Empty(t, res.Commands, "resolved commands are never re-delivered")
}

func TestDispatchPublishesStreamEvents(t *testing.T) {
	registry := NewRegistryService(RegistryServiceConfig{})
	queue := NewQueueService()
	events := NewEventBroadcaster()
	dispatch := NewDispatchService(DispatchServiceConfig{
		Registry: registry,
		Queue:    queue,
		Events:   events,
		Logger:   logger.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := events.Subscribe(ctx)

	_, err := dispatch.Handle(context.Background(), domain.DispatchEvent{
		Type:     domain.EventRegister,
		AgentID:  "a1",
		Hostname: "web-01",
		Platform: "linux",
	})
	require.NoError(t, err)

	ev := <-ch
	assert.Equal(t, domain.StreamAgentRegistered, ev.Type)
	require.NotNil(t, ev.Agent)
	assert.Equal(t, "a1", ev.Agent.ID)
	assert.NotZero(t, ev.Timestamp)
}
