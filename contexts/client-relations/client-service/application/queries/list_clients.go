package queries

import (
	"context"
	"log/slog"
	"strings"

	application "crmhub/contexts/client-relations/client-service/application"
	"crmhub/contexts/client-relations/client-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/client-service/domain/errors"
	"crmhub/contexts/client-relations/client-service/ports"
	"crmhub/internal/shared/authz"
	"crmhub/internal/shared/pagination"
)

const defaultPerPage = 25

type ListClientsQuery struct {
	Actor   authz.Actor
	Search  string
	Page    int
	PerPage int
}

type ListClientsResult struct {
	Total   int
	Clients pagination.Paginated[entities.Client]
}

// ListClientsUseCase builds the store descriptor from the actor: manager
// actors only see assigned clients, everyone is scoped to their hub.
type ListClientsUseCase struct {
	Clients ports.ClientReader
	Logger  *slog.Logger
}

func (uc ListClientsUseCase) Execute(ctx context.Context, query ListClientsQuery) (ListClientsResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(query.Actor, authz.RoleUser); err != nil {
		return ListClientsResult{}, domainerrors.ErrForbidden
	}
	if query.Actor.HubID <= 0 {
		return ListClientsResult{}, domainerrors.ErrInvalidHub
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	descriptor := ports.ClientListQuery{
		HubID:        query.Actor.HubID,
		ManagerEmail: authz.ManagerScope(query.Actor),
		Search:       strings.TrimSpace(query.Search),
		Pagination:   &pagination.Request{Page: page, PerPage: perPage},
	}

	total, items, err := uc.Clients.ListClients(ctx, descriptor)
	if err != nil {
		return ListClientsResult{}, err
	}

	logger.Info("clients listed",
		"event", "clients_listed",
		"module", "client-relations/client-service",
		"layer", "application",
		"hub_id", query.Actor.HubID,
		"search", descriptor.Search != "",
		"total", total,
		"page", page,
	)
	return ListClientsResult{
		Total:   total,
		Clients: pagination.NewPaginated(items, page, pagination.TotalPages(total, perPage)),
	}, nil
}
