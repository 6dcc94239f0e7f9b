package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"crmhub/contexts/client-relations/client-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/client-service/domain/errors"
	"crmhub/contexts/client-relations/client-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the client reader/writer ports.
// It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	clients map[string]entities.Client
	// assignments maps client_id -> set of lowercase manager emails.
	assignments map[string]map[string]struct{}
}

// NewStore builds a deterministic in-memory client adapter.
func NewStore() *Store {
	return &Store{
		clients:     make(map[string]entities.Client),
		assignments: make(map[string]map[string]struct{}),
	}
}

// AssignManager records a manager email against a client for scoping checks.
// Production wiring reads the shared assignment table instead.
func (s *Store) AssignManager(clientID, managerEmail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignments[clientID] == nil {
		s.assignments[clientID] = make(map[string]struct{})
	}
	s.assignments[clientID][strings.ToLower(strings.TrimSpace(managerEmail))] = struct{}{}
}

func (s *Store) FindClientByID(_ context.Context, hubID int, clientID string) (entities.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[strings.TrimSpace(clientID)]
	if !ok || client.HubID != hubID {
		return entities.Client{}, domainerrors.ErrClientNotFound
	}
	return cloneClient(client), nil
}

func (s *Store) FindClientByEmail(_ context.Context, hubID int, email string) (entities.Client, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, client := range s.clients {
		if client.HubID == hubID && client.Email == email {
			return cloneClient(client), nil
		}
	}
	return entities.Client{}, domainerrors.ErrClientNotFound
}

func (s *Store) ListClients(_ context.Context, query ports.ClientListQuery) (int, []entities.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entities.Client, 0, len(s.clients))
	managerEmail := strings.ToLower(strings.TrimSpace(query.ManagerEmail))
	search := strings.ToLower(strings.TrimSpace(query.Search))
	for _, client := range s.clients {
		if client.HubID != query.HubID {
			continue
		}
		if managerEmail != "" {
			if _, ok := s.assignments[client.ClientID][managerEmail]; !ok {
				continue
			}
		}
		if search != "" && !matchesSearch(client, search) {
			continue
		}
		matched = append(matched, cloneClient(client))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ClientID < matched[j].ClientID
	})

	total := len(matched)
	if query.Pagination != nil {
		offset := query.Pagination.Offset()
		if offset >= len(matched) {
			return total, []entities.Client{}, nil
		}
		end := offset + query.Pagination.PerPage
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}
	return total, matched, nil
}

func (s *Store) ListAvailableFields(_ context.Context, hubID int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, client := range s.clients {
		if client.HubID != hubID {
			continue
		}
		for field := range client.Fields {
			seen[field] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for field := range seen {
		names = append(names, field)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) IsClientAssignedToManager(_ context.Context, clientID string, managerEmail string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.assignments[strings.TrimSpace(clientID)][strings.ToLower(strings.TrimSpace(managerEmail))]
	return ok, nil
}

func (s *Store) UpsertClients(_ context.Context, items []entities.NewClient) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	written := 0
	for _, item := range items {
		email := strings.ToLower(strings.TrimSpace(item.Email))
		existing, ok := s.findByEmailLocked(item.HubID, email)
		if !ok {
			client := entities.Client{
				ClientID:  uuid.NewString(),
				HubID:     item.HubID,
				Name:      strings.TrimSpace(item.Name),
				Email:     email,
				Phone:     strings.TrimSpace(item.Phone),
				Address:   strings.TrimSpace(item.Address),
				CreatedAt: now,
				UpdatedAt: now,
				Fields:    cloneFields(item.Fields),
			}
			s.clients[client.ClientID] = client
			written++
			continue
		}

		existing.Name = strings.TrimSpace(item.Name)
		if phone := strings.TrimSpace(item.Phone); phone != "" {
			existing.Phone = phone
		}
		if address := strings.TrimSpace(item.Address); address != "" {
			existing.Address = address
		}
		if existing.Fields == nil {
			existing.Fields = make(map[string]string)
		}
		for field, value := range item.Fields {
			field = strings.TrimSpace(field)
			value = strings.TrimSpace(value)
			if field == "" || value == "" {
				continue
			}
			existing.Fields[field] = value
		}
		existing.UpdatedAt = now
		s.clients[existing.ClientID] = existing
		written++
	}
	return written, nil
}

func (s *Store) UpdateClient(_ context.Context, clientID string, update entities.ClientUpdate) (entities.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[strings.TrimSpace(clientID)]
	if !ok {
		return entities.Client{}, domainerrors.ErrClientNotFound
	}
	if email := strings.ToLower(strings.TrimSpace(update.Email)); email != "" {
		if other, exists := s.findByEmailLocked(client.HubID, email); exists && other.ClientID != client.ClientID {
			return entities.Client{}, domainerrors.ErrDuplicateEmail
		}
		client.Email = email
	}
	client.Name = strings.TrimSpace(update.Name)
	client.Phone = strings.TrimSpace(update.Phone)
	client.Address = strings.TrimSpace(update.Address)
	if update.Fields != nil {
		client.Fields = cloneFields(update.Fields)
	}
	client.UpdatedAt = time.Now().UTC()
	s.clients[client.ClientID] = client
	return cloneClient(client), nil
}

func (s *Store) ReplaceClientFields(_ context.Context, clientID string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[strings.TrimSpace(clientID)]
	if !ok {
		return domainerrors.ErrClientNotFound
	}
	client.Fields = cloneFields(fields)
	client.UpdatedAt = time.Now().UTC()
	s.clients[client.ClientID] = client
	return nil
}

func (s *Store) DeleteClient(_ context.Context, clientID string) error {
	clientID = strings.TrimSpace(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return domainerrors.ErrClientNotFound
	}
	delete(s.clients, clientID)
	delete(s.assignments, clientID)
	return nil
}

func (s *Store) findByEmailLocked(hubID int, email string) (entities.Client, bool) {
	for _, client := range s.clients {
		if client.HubID == hubID && client.Email == email {
			return client, true
		}
	}
	return entities.Client{}, false
}

func matchesSearch(client entities.Client, lowered string) bool {
	return strings.Contains(strings.ToLower(client.SearchText()), lowered)
}

func cloneClient(client entities.Client) entities.Client {
	client.Fields = cloneFields(client.Fields)
	return client
}

func cloneFields(fields map[string]string) map[string]string {
	if fields == nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for field, value := range fields {
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)
		if field == "" || value == "" {
			continue
		}
		out[field] = value
	}
	return out
}
