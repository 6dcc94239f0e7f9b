package commands

import (
	"context"
	"log/slog"
	"strings"

	application "crmhub/contexts/client-relations/manager-service/application"
	domainerrors "crmhub/contexts/client-relations/manager-service/domain/errors"
	"crmhub/contexts/client-relations/manager-service/ports"
	"crmhub/internal/shared/authz"
)

type AssignClientsCommand struct {
	Actor     authz.Actor
	ManagerID string
	ClientIDs []string
}

// AssignClientsUseCase replaces a manager's assignment set wholesale: client
// ids absent from the new list are unassigned afterwards.
type AssignClientsUseCase struct {
	Reader ports.ManagerReader
	Writer ports.ManagerWriter
	Logger *slog.Logger
}

func (uc AssignClientsUseCase) Execute(ctx context.Context, cmd AssignClientsCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(cmd.Actor, authz.RoleAdmin); err != nil {
		return domainerrors.ErrForbidden
	}
	if _, err := uc.Reader.FindManagerByID(ctx, cmd.Actor.HubID, cmd.ManagerID); err != nil {
		return err
	}

	ids := make([]string, 0, len(cmd.ClientIDs))
	seen := make(map[string]struct{}, len(cmd.ClientIDs))
	for _, id := range cmd.ClientIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if err := uc.Writer.AssignClients(ctx, cmd.ManagerID, ids); err != nil {
		return err
	}
	logger.Info("manager clients assigned",
		"event", "manager_clients_assigned",
		"module", "client-relations/manager-service",
		"layer", "application",
		"manager_id", cmd.ManagerID,
		"client_count", len(ids),
	)
	return nil
}
