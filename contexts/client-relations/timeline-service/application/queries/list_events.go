package queries

import (
	"context"
	"log/slog"
	"strings"

	application "crmhub/contexts/client-relations/timeline-service/application"
	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	"crmhub/contexts/client-relations/timeline-service/ports"
	"crmhub/internal/shared/authz"
	"crmhub/internal/shared/pagination"
)

const defaultPerPage = 25

type ListEventsQuery struct {
	Actor    authz.Actor
	ClientID string
	Type     string
	Page     int
	PerPage  int
}

type ListEventsResult struct {
	Total  int
	Events pagination.Paginated[entities.EventWithManager]
}

// ListEventsUseCase serves a client's timeline newest-first with the
// attributed manager joined onto each entry.
type ListEventsUseCase struct {
	Clients ports.ClientDirectory
	Events  ports.EventStore
	Logger  *slog.Logger
}

func (uc ListEventsUseCase) Execute(ctx context.Context, query ListEventsQuery) (ListEventsResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(query.Actor, authz.RoleUser); err != nil {
		return ListEventsResult{}, domainerrors.ErrForbidden
	}
	if err := application.EnsureClientAccess(ctx, uc.Clients, query.Actor, query.ClientID); err != nil {
		return ListEventsResult{}, err
	}
	// Confirms existence and hub ownership before listing.
	client, err := uc.Clients.FindClientByID(ctx, query.Actor.HubID, query.ClientID)
	if err != nil {
		return ListEventsResult{}, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	descriptor := ports.EventListQuery{
		ClientID:   client.ClientID,
		Pagination: &pagination.Request{Page: page, PerPage: perPage},
	}
	if label := strings.TrimSpace(query.Type); label != "" {
		descriptor.Type = entities.ParseEventType(label)
	}

	total, items, err := uc.Events.ListEvents(ctx, descriptor)
	if err != nil {
		return ListEventsResult{}, err
	}

	logger.Debug("timeline listed",
		"event", "timeline_listed",
		"module", "client-relations/timeline-service",
		"layer", "application",
		"client_id", client.ClientID,
		"total", total,
		"page", page,
	)
	return ListEventsResult{
		Total:  total,
		Events: pagination.NewPaginated(items, page, pagination.TotalPages(total, perPage)),
	}, nil
}
