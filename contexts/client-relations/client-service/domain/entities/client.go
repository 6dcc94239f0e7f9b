package entities

import (
	"net/mail"
	"sort"
	"strings"
	"time"
)

// Client is a hub-scoped contact record. Fields carries the open map of
// custom field values keyed by field name.
type Client struct {
	ClientID  string
	HubID     int
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Fields    map[string]string
}

// NewClient is the input shape for bulk import and manual creation.
// (HubID, Email) identifies the target row: an import hitting an existing
// pair updates the record instead of duplicating it.
type NewClient struct {
	HubID   int
	Name    string
	Email   string
	Phone   string
	Address string
	Fields  map[string]string
}

// ClientUpdate carries the editable attributes for a save operation.
// Fields, when non-nil, replaces the stored custom fields wholesale.
type ClientUpdate struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Fields  map[string]string
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

// SearchText flattens the client attributes and custom field values into the
// denormalized text the full-text index is built over.
func (c Client) SearchText() string {
	parts := make([]string, 0, 4+len(c.Fields))
	for _, value := range []string{c.Name, c.Email, c.Phone, c.Address} {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, strings.TrimSpace(value))
		}
	}
	keys := make([]string, 0, len(c.Fields))
	for key := range c.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value := strings.TrimSpace(c.Fields[key]); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}
