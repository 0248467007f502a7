package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/relaydeck/coordinator/internal/domain"
)

// DefaultRecentLimit bounds ListRecent when the caller asks for nothing or
// too much.
const DefaultRecentLimit = 50

// QueueService is the in-memory command queue. A submission-order slice
// backs PendingFor's oldest-first guarantee; the map serves result
// correlation by id. Commands are retained forever, terminal ones are simply
// never delivered again.
type QueueService struct {
	mu       sync.RWMutex
	commands map[string]*domain.Command
	order    []string

	now func() time.Time
}

func NewQueueService() *QueueService {
	return &QueueService{
		commands: make(map[string]*domain.Command),
		order:    make([]string, 0),
		now:      time.Now,
	}
}

// Enqueue inserts a command as pending, generating an id when the caller
// supplied none, and returns the stored command.
func (s *QueueService) Enqueue(cmd domain.Command) domain.Command {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cmd.ID == "" {
		cmd.ID = uuid.New().String()
	}
	cmd.Status = domain.CommandStatusPending
	cmd.Output = ""
	cmd.ResolvedAt = nil
	cmd.SubmittedAt = s.now()

	if _, exists := s.commands[cmd.ID]; !exists {
		s.order = append(s.order, cmd.ID)
	}
	stored := cmd
	s.commands[cmd.ID] = &stored
	return cmd
}

// PendingFor returns copies of all pending commands for the agent in
// submission order, oldest first. Delivery does not change status: the same
// command is returned again on the next call until a result lands.
func (s *QueueService) PendingFor(agentID string) []domain.Command {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]domain.Command, 0)
	for _, id := range s.order {
		cmd := s.commands[id]
		if cmd.AgentID == agentID && cmd.Status == domain.CommandStatusPending {
			pending = append(pending, *cmd)
		}
	}
	return pending
}

// ApplyResult transitions a pending command to a terminal status and attaches
// output. Unknown ids and commands already terminal are silent no-ops: agents
// retry result delivery and terminal states admit no transitions. The second
// return reports whether the transition was applied.
func (s *QueueService) ApplyResult(commandID string, status domain.CommandStatus, output string) (*domain.Command, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, ok := s.commands[commandID]
	if !ok || cmd.Status != domain.CommandStatusPending {
		return nil, false
	}

	resolvedAt := s.now()
	cmd.Status = status
	cmd.Output = output
	cmd.ResolvedAt = &resolvedAt

	cmdCopy := *cmd
	return &cmdCopy, true
}

// Get returns a copy of the command with the given id.
func (s *QueueService) Get(id string) (*domain.Command, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cmd, ok := s.commands[id]
	if !ok {
		return nil, ErrCommandNotFound
	}
	cmdCopy := *cmd
	return &cmdCopy, nil
}

// ListRecent returns up to limit commands, most recently submitted first.
// Non-positive or oversized limits are clamped to DefaultRecentLimit.
func (s *QueueService) ListRecent(limit int) []domain.Command {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > DefaultRecentLimit {
		limit = DefaultRecentLimit
	}

	recent := make([]domain.Command, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, *s.commands[s.order[i]])
	}
	return recent
}
