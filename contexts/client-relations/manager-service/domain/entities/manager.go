package entities

import (
	"net/mail"
	"strings"
	"time"
)

// Manager is a hub-scoped manager record. IsUser marks managers backed by a
// real account; correlation workers may create non-user managers from
// message senders, and a later upsert for the same (hub, email) with IsUser
// set promotes the row without ever demoting it back.
type Manager struct {
	ManagerID string
	HubID     int
	Name      string
	Email     string
	IsUser    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewManager is the input shape for the upsert path.
type NewManager struct {
	HubID  int
	Name   string
	Email  string
	IsUser bool
}

// NormalizeEmail lowercases and trims an address and validates its format.
func NormalizeEmail(email string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", false
	}
	parsed, err := mail.ParseAddress(normalized)
	if err != nil || parsed.Address != normalized {
		return "", false
	}
	return normalized, true
}
