package services

import (
	"sync"
	"time"

	"github.com/relaydeck/coordinator/internal/domain"
)

// RegistryService is the in-memory agent registry. Agents are keyed by their
// caller-supplied id; an insertion-order slice keeps listing stable across
// re-registrations. Entries are never removed, they only go stale.
type RegistryService struct {
	mu     sync.RWMutex
	agents map[string]*domain.Agent
	order  []string

	window time.Duration
	now    func() time.Time
}

type RegistryServiceConfig struct {
	// LivenessWindow overrides DefaultLivenessWindow when positive.
	LivenessWindow time.Duration
}

func NewRegistryService(cfg RegistryServiceConfig) *RegistryService {
	window := cfg.LivenessWindow
	if window <= 0 {
		window = DefaultLivenessWindow
	}
	return &RegistryService{
		agents: make(map[string]*domain.Agent),
		order:  make([]string, 0),
		window: window,
		now:    time.Now,
	}
}

// Upsert inserts a new agent or fully replaces an existing entry with the
// same id, stamping lastSeenAt. It always succeeds.
func (s *RegistryService) Upsert(agent domain.Agent) domain.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	agent.LastSeenAt = now
	if existing, ok := s.agents[agent.ID]; ok {
		agent.RegisteredAt = existing.RegisteredAt
	} else {
		agent.RegisteredAt = now
		s.order = append(s.order, agent.ID)
	}

	stored := agent
	s.agents[agent.ID] = &stored
	return agent
}

// Touch refreshes lastSeenAt for a known agent. Heartbeats from ids the
// registry has never seen return ErrAgentNotFound; callers treat that as a
// no-op, not a failure.
func (s *RegistryService) Touch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[id]
	if !ok {
		return ErrAgentNotFound
	}
	agent.LastSeenAt = s.now()
	return nil
}

// Get returns a copy of the agent with the given id.
func (s *RegistryService) Get(id string) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, ok := s.agents[id]
	if !ok {
		return nil, ErrAgentNotFound
	}
	agentCopy := *agent
	return &agentCopy, nil
}

// List returns all agents in insertion order, optionally filtered to those
// currently inside the liveness window.
func (s *RegistryService) List(activeOnly bool) []domain.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	agents := make([]domain.Agent, 0, len(s.order))
	for _, id := range s.order {
		agent := s.agents[id]
		if activeOnly && !Connected(agent.LastSeenAt, now, s.window) {
			continue
		}
		agents = append(agents, *agent)
	}
	return agents
}

// Connected evaluates the liveness window for a single agent.
func (s *RegistryService) Connected(agent *domain.Agent) bool {
	return Connected(agent.LastSeenAt, s.now(), s.window)
}
