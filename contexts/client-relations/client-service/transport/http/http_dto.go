package httptransport

import "time"

// ClientDTO is the wire shape of a client record including custom fields.
type ClientDTO struct {
	ClientID  string            `json:"client_id"`
	HubID     int               `json:"hub_id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone,omitempty"`
	Address   string            `json:"address,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// PageDTO is one entry of the compact pagination window; a nil Number with
// Ellipsis set marks a gap.
type PageDTO struct {
	Number   *int `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

type ListClientsRequest struct {
	Search  string `json:"search,omitempty"`
	Page    int    `json:"page,omitempty"`
	PerPage int    `json:"per_page,omitempty"`
}

type ListClientsResponse struct {
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	Pages   []PageDTO   `json:"pages"`
	Clients []ClientDTO `json:"clients"`
}

type GetClientResponse struct {
	Client          ClientDTO `json:"client"`
	AvailableFields []string  `json:"available_fields"`
}

type ImportClientRecord struct {
	HubID   int               `json:"hub_id,omitempty"`
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Phone   string            `json:"phone,omitempty"`
	Address string            `json:"address,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ImportClientsRequest struct {
	Clients []ImportClientRecord `json:"clients"`
}

type ImportClientsResponse struct {
	Written int `json:"written"`
}

type SaveClientRequest struct {
	Name    string            `json:"name"`
	Email   string            `json:"email,omitempty"`
	Phone   string            `json:"phone,omitempty"`
	Address string            `json:"address,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type SaveClientResponse struct {
	Client ClientDTO `json:"client"`
}

type ReplaceFieldsRequest struct {
	Fields map[string]string `json:"fields"`
}

type DeleteClientResponse struct {
	ClientID string `json:"client_id"`
	Deleted  bool   `json:"deleted"`
}

// ErrorResponse is the uniform error body for client endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
