package httptransport

import "time"

// ManagerDTO is the wire shape of a manager record.
type ManagerDTO struct {
	ManagerID string    `json:"manager_id"`
	HubID     int       `json:"hub_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsUser    bool      `json:"is_user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertManagerRequest struct {
	HubID  int    `json:"hub_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	IsUser bool   `json:"is_user,omitempty"`
}

type UpsertManagerResponse struct {
	Manager ManagerDTO `json:"manager"`
}

type AssignClientsRequest struct {
	ClientIDs []string `json:"client_ids"`
}

type ManagerWithClientsDTO struct {
	Manager   ManagerDTO `json:"manager"`
	ClientIDs []string   `json:"client_ids"`
}

type ListManagersResponse struct {
	Managers []ManagerWithClientsDTO `json:"managers"`
}

type ListClientManagersResponse struct {
	ClientID string       `json:"client_id"`
	Managers []ManagerDTO `json:"managers"`
}

type DeleteManagerResponse struct {
	ManagerID string `json:"manager_id"`
	Deleted   bool   `json:"deleted"`
}

// ErrorResponse is the uniform error body for manager endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
