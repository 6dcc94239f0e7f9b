package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	"crmhub/contexts/client-relations/timeline-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the event store, the client
// directory and the manager directory ports, plus Clock/IDGenerator. It is
// intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	events   []entities.Event
	clients  map[string]ports.ClientRef
	managers map[string]ports.ManagerRef
	// assignments maps client_id -> ordered manager ids.
	assignments map[string][]string
	counter     int
	sequence    int
}

// NewStore builds a deterministic in-memory timeline adapter. Manager ids
// are sequential so "first manager by id" matches insertion order; event
// timestamps are strictly increasing so recency ordering is unambiguous.
func NewStore() *Store {
	return &Store{
		clients:     make(map[string]ports.ClientRef),
		managers:    make(map[string]ports.ManagerRef),
		assignments: make(map[string][]string),
	}
}

// SeedClient registers a client record for correlation lookups.
func (s *Store) SeedClient(client ports.ClientRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	s.clients[client.ClientID] = client
}

// SeedAssignment appends a manager to a client's ordered assignment list.
func (s *Store) SeedAssignment(clientID, managerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[clientID] = append(s.assignments[clientID], managerID)
}

// Events returns a copy of every stored event in append order.
func (s *Store) Events() []entities.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Event(nil), s.events...)
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.sequence) * time.Second)
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) AppendEvent(_ context.Context, event entities.Event) (entities.Event, error) {
	payload, err := entities.CanonicalPayload(event.Payload)
	if err != nil {
		return entities.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *entities.Event
	for i := range s.events {
		candidate := &s.events[i]
		if candidate.ClientID != event.ClientID ||
			candidate.ManagerID != event.ManagerID ||
			candidate.Type != event.Type {
			continue
		}
		if latest == nil || candidate.CreatedAt.After(latest.CreatedAt) {
			latest = candidate
		}
	}
	if latest != nil {
		latestPayload, err := entities.CanonicalPayload(latest.Payload)
		if err != nil {
			return entities.Event{}, err
		}
		if bytes.Equal(latestPayload, payload) {
			return *latest, nil
		}
	}

	s.events = append(s.events, event)
	return event, nil
}

func (s *Store) ListEvents(_ context.Context, query ports.EventListQuery) (int, []entities.EventWithManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entities.Event, 0, len(s.events))
	for _, event := range s.events {
		if event.ClientID != strings.TrimSpace(query.ClientID) {
			continue
		}
		if query.Type != "" && event.Type != query.Type {
			continue
		}
		matched = append(matched, event)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if query.Pagination != nil {
		offset := query.Pagination.Offset()
		if offset >= len(matched) {
			return total, []entities.EventWithManager{}, nil
		}
		end := offset + query.Pagination.PerPage
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}

	items := make([]entities.EventWithManager, 0, len(matched))
	for _, event := range matched {
		manager := s.managers[event.ManagerID]
		items = append(items, entities.EventWithManager{
			Event:        event,
			ManagerName:  manager.Name,
			ManagerEmail: manager.Email,
		})
	}
	return total, items, nil
}

func (s *Store) FindClientByEmail(_ context.Context, hubID int, email string) (ports.ClientRef, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, client := range s.clients {
		if client.HubID == hubID && client.Email == email {
			return client, nil
		}
	}
	return ports.ClientRef{}, domainerrors.ErrClientNotFound
}

func (s *Store) FindClientByID(_ context.Context, hubID int, clientID string) (ports.ClientRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[strings.TrimSpace(clientID)]
	if !ok || client.HubID != hubID {
		return ports.ClientRef{}, domainerrors.ErrClientNotFound
	}
	return client, nil
}

func (s *Store) IsClientAssignedToManager(_ context.Context, clientID string, managerEmail string) (bool, error) {
	managerEmail = strings.ToLower(strings.TrimSpace(managerEmail))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, managerID := range s.assignments[strings.TrimSpace(clientID)] {
		if manager, ok := s.managers[managerID]; ok && manager.Email == managerEmail {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpsertManager(_ context.Context, upsert ports.ManagerUpsert) (ports.ManagerRef, error) {
	email := strings.ToLower(strings.TrimSpace(upsert.Email))
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, manager := range s.managers {
		if manager.HubID == upsert.HubID && manager.Email == email {
			manager.Name = strings.TrimSpace(upsert.Name)
			s.managers[id] = manager
			return manager, nil
		}
	}

	s.counter++
	created := ports.ManagerRef{
		ManagerID: fmt.Sprintf("mgr-%06d-%s", s.counter, uuid.NewString()[:8]),
		HubID:     upsert.HubID,
		Name:      strings.TrimSpace(upsert.Name),
		Email:     email,
	}
	s.managers[created.ManagerID] = created
	return created, nil
}

func (s *Store) ListManagersForClient(_ context.Context, clientID string) ([]ports.ManagerRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := append([]string(nil), s.assignments[strings.TrimSpace(clientID)]...)
	sort.Strings(ids)
	refs := make([]ports.ManagerRef, 0, len(ids))
	for _, id := range ids {
		if manager, ok := s.managers[id]; ok {
			refs = append(refs, manager)
		}
	}
	return refs, nil
}
