package commands

import (
	"context"
	"log/slog"

	application "crmhub/contexts/client-relations/manager-service/application"
	domainerrors "crmhub/contexts/client-relations/manager-service/domain/errors"
	"crmhub/contexts/client-relations/manager-service/ports"
	"crmhub/internal/shared/authz"
)

type DeleteManagerCommand struct {
	Actor     authz.Actor
	ManagerID string
}

type DeleteManagerUseCase struct {
	Reader ports.ManagerReader
	Writer ports.ManagerWriter
	Logger *slog.Logger
}

func (uc DeleteManagerUseCase) Execute(ctx context.Context, cmd DeleteManagerCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(cmd.Actor, authz.RoleAdmin); err != nil {
		return domainerrors.ErrForbidden
	}
	if _, err := uc.Reader.FindManagerByID(ctx, cmd.Actor.HubID, cmd.ManagerID); err != nil {
		return err
	}
	if err := uc.Writer.DeleteManager(ctx, cmd.ManagerID); err != nil {
		return err
	}
	logger.Info("manager deleted",
		"event", "manager_deleted",
		"module", "client-relations/manager-service",
		"layer", "application",
		"manager_id", cmd.ManagerID,
		"hub_id", cmd.Actor.HubID,
	)
	return nil
}
