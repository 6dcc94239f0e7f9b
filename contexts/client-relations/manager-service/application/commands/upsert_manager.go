package commands

import (
	"context"
	"log/slog"
	"strings"

	application "crmhub/contexts/client-relations/manager-service/application"
	"crmhub/contexts/client-relations/manager-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/manager-service/domain/errors"
	"crmhub/contexts/client-relations/manager-service/ports"
	"crmhub/internal/shared/authz"
)

type UpsertManagerCommand struct {
	Actor  authz.Actor
	HubID  int
	Name   string
	Email  string
	IsUser bool
}

// UpsertManagerUseCase normalizes and validates input, then delegates to the
// atomic (hub_id, email) upsert. Concurrent callers for the same pair
// converge on one row.
type UpsertManagerUseCase struct {
	Managers ports.ManagerWriter
	Logger   *slog.Logger
}

func (uc UpsertManagerUseCase) Execute(ctx context.Context, cmd UpsertManagerCommand) (entities.Manager, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(cmd.Actor, authz.RoleAdmin); err != nil {
		return entities.Manager{}, domainerrors.ErrForbidden
	}

	hubID := cmd.HubID
	if hubID <= 0 {
		hubID = cmd.Actor.HubID
	}
	if hubID <= 0 {
		return entities.Manager{}, domainerrors.ErrInvalidHub
	}
	email, ok := entities.NormalizeEmail(cmd.Email)
	if !ok {
		return entities.Manager{}, domainerrors.ErrInvalidEmail
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = email
	}

	manager, err := uc.Managers.UpsertManager(ctx, entities.NewManager{
		HubID:  hubID,
		Name:   name,
		Email:  email,
		IsUser: cmd.IsUser,
	})
	if err != nil {
		return entities.Manager{}, err
	}
	logger.Info("manager upserted",
		"event", "manager_upserted",
		"module", "client-relations/manager-service",
		"layer", "application",
		"manager_id", manager.ManagerID,
		"hub_id", manager.HubID,
		"is_user", manager.IsUser,
	)
	return manager, nil
}
