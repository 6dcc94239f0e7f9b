package commands

import (
	"context"
	"log/slog"
	"strings"

	application "crmhub/contexts/client-relations/client-service/application"
	"crmhub/contexts/client-relations/client-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/client-service/domain/errors"
	"crmhub/contexts/client-relations/client-service/ports"
	"crmhub/internal/shared/authz"
)

type ImportClientsCommand struct {
	Actor   authz.Actor
	Clients []entities.NewClient
}

// ImportClientsUseCase feeds the bulk upsert path. Records with an invalid
// hub or email are dropped up front; per-record store failures inside the
// batch are the store's concern and never abort the whole import.
type ImportClientsUseCase struct {
	Clients ports.ClientWriter
	Logger  *slog.Logger
}

func (uc ImportClientsUseCase) Execute(ctx context.Context, cmd ImportClientsCommand) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(cmd.Actor, authz.RoleUser); err != nil {
		return 0, domainerrors.ErrForbidden
	}

	accepted := make([]entities.NewClient, 0, len(cmd.Clients))
	for _, item := range cmd.Clients {
		if item.HubID <= 0 {
			item.HubID = cmd.Actor.HubID
		}
		if item.HubID <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}
		email, ok := entities.NormalizeEmail(item.Email)
		if !ok {
			logger.Warn("skipping import record with invalid email",
				"event", "client_import_record_skipped",
				"module", "client-relations/client-service",
				"layer", "application",
				"hub_id", item.HubID,
			)
			continue
		}
		item.Email = email
		accepted = append(accepted, item)
	}
	if len(accepted) == 0 {
		return 0, nil
	}

	count, err := uc.Clients.UpsertClients(ctx, accepted)
	if err != nil {
		return 0, err
	}
	logger.Info("clients imported",
		"event", "clients_imported",
		"module", "client-relations/client-service",
		"layer", "application",
		"hub_id", cmd.Actor.HubID,
		"accepted", len(accepted),
		"written", count,
	)
	return count, nil
}
