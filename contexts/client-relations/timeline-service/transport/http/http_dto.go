package httptransport

import "time"

// EventDTO is the wire shape of a timeline entry with its attributed
// manager's display attributes.
type EventDTO struct {
	EventID      string         `json:"event_id"`
	ClientID     string         `json:"client_id"`
	ManagerID    string         `json:"manager_id"`
	ManagerName  string         `json:"manager_name,omitempty"`
	ManagerEmail string         `json:"manager_email,omitempty"`
	Type         string         `json:"type"`
	Payload      map[string]any `json:"payload"`
	CreatedAt    time.Time      `json:"created_at"`
}

// PageDTO is one entry of the compact pagination window; a nil Number with
// Ellipsis set marks a gap.
type PageDTO struct {
	Number   *int `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

type ListEventsRequest struct {
	Type    string `json:"type,omitempty"`
	Page    int    `json:"page,omitempty"`
	PerPage int    `json:"per_page,omitempty"`
}

type ListEventsResponse struct {
	Total  int        `json:"total"`
	Page   int        `json:"page"`
	Pages  []PageDTO  `json:"pages"`
	Events []EventDTO `json:"events"`
}

type AddCommentRequest struct {
	Text string `json:"text"`
}

type AddAttachmentRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type AppendEventResponse struct {
	Event EventDTO `json:"event"`
}

// ErrorResponse is the uniform error body for timeline endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
