package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"crmhub/contexts/client-relations/manager-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/manager-service/domain/errors"
	"crmhub/contexts/client-relations/manager-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the manager reader/writer ports.
// It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	managers map[string]entities.Manager
	// assignments maps manager_id -> set of client ids.
	assignments map[string]map[string]struct{}
	counter     int
}

// NewStore builds a deterministic in-memory manager adapter. Manager ids are
// sequential so the "first manager by id" ordering matches insertion order.
func NewStore() *Store {
	return &Store{
		managers:    make(map[string]entities.Manager),
		assignments: make(map[string]map[string]struct{}),
	}
}

func (s *Store) FindManagerByID(_ context.Context, hubID int, managerID string) (entities.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	manager, ok := s.managers[strings.TrimSpace(managerID)]
	if !ok || manager.HubID != hubID {
		return entities.Manager{}, domainerrors.ErrManagerNotFound
	}
	return manager, nil
}

func (s *Store) FindManagerByEmail(_ context.Context, hubID int, email string) (entities.Manager, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	if manager, ok := s.findByEmailLocked(hubID, email); ok {
		return manager, nil
	}
	return entities.Manager{}, domainerrors.ErrManagerNotFound
}

func (s *Store) ListManagersForClient(_ context.Context, clientID string) ([]entities.Manager, error) {
	clientID = strings.TrimSpace(clientID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	managers := make([]entities.Manager, 0, 2)
	for managerID, clients := range s.assignments {
		if _, ok := clients[clientID]; !ok {
			continue
		}
		if manager, ok := s.managers[managerID]; ok {
			managers = append(managers, manager)
		}
	}
	sort.Slice(managers, func(i, j int) bool {
		return managers[i].ManagerID < managers[j].ManagerID
	})
	return managers, nil
}

func (s *Store) IsClientAssignedToManager(_ context.Context, clientID string, managerEmail string) (bool, error) {
	clientID = strings.TrimSpace(clientID)
	managerEmail = strings.ToLower(strings.TrimSpace(managerEmail))
	s.mu.RLock()
	defer s.mu.RUnlock()

	for managerID, clients := range s.assignments {
		if _, ok := clients[clientID]; !ok {
			continue
		}
		if manager, ok := s.managers[managerID]; ok && manager.Email == managerEmail {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListManagersWithClients(_ context.Context, hubID int) ([]ports.ManagerWithClients, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.ManagerWithClients, 0, len(s.managers))
	for _, manager := range s.managers {
		if manager.HubID != hubID {
			continue
		}
		clientIDs := make([]string, 0, len(s.assignments[manager.ManagerID]))
		for clientID := range s.assignments[manager.ManagerID] {
			clientIDs = append(clientIDs, clientID)
		}
		sort.Strings(clientIDs)
		out = append(out, ports.ManagerWithClients{Manager: manager, ClientIDs: clientIDs})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Manager.ManagerID < out[j].Manager.ManagerID
	})
	return out, nil
}

func (s *Store) UpsertManager(_ context.Context, manager entities.NewManager) (entities.Manager, error) {
	email := strings.ToLower(strings.TrimSpace(manager.Email))
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.findByEmailLocked(manager.HubID, email); ok {
		existing.Name = strings.TrimSpace(manager.Name)
		existing.IsUser = existing.IsUser || manager.IsUser
		existing.UpdatedAt = now
		s.managers[existing.ManagerID] = existing
		return existing, nil
	}

	s.counter++
	created := entities.Manager{
		ManagerID: nextID(s.counter),
		HubID:     manager.HubID,
		Name:      strings.TrimSpace(manager.Name),
		Email:     email,
		IsUser:    manager.IsUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.managers[created.ManagerID] = created
	return created, nil
}

func (s *Store) AssignClients(_ context.Context, managerID string, clientIDs []string) error {
	managerID = strings.TrimSpace(managerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.managers[managerID]; !ok {
		return domainerrors.ErrManagerNotFound
	}
	set := make(map[string]struct{}, len(clientIDs))
	for _, clientID := range clientIDs {
		if clientID = strings.TrimSpace(clientID); clientID != "" {
			set[clientID] = struct{}{}
		}
	}
	s.assignments[managerID] = set
	return nil
}

func (s *Store) DeleteManager(_ context.Context, managerID string) error {
	managerID = strings.TrimSpace(managerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.managers[managerID]; !ok {
		return domainerrors.ErrManagerNotFound
	}
	delete(s.managers, managerID)
	delete(s.assignments, managerID)
	return nil
}

func (s *Store) findByEmailLocked(hubID int, email string) (entities.Manager, bool) {
	for _, manager := range s.managers {
		if manager.HubID == hubID && manager.Email == email {
			return manager, true
		}
	}
	return entities.Manager{}, false
}

// nextID yields lexicographically ordered ids so id-based ordering is stable
// in tests; production rows carry UUIDs.
func nextID(counter int) string {
	return fmt.Sprintf("mgr-%06d-%s", counter, uuid.NewString()[:8])
}
