package commands

import (
	"context"
	"log/slog"

	application "crmhub/contexts/client-relations/client-service/application"
	domainerrors "crmhub/contexts/client-relations/client-service/domain/errors"
	"crmhub/contexts/client-relations/client-service/ports"
	"crmhub/internal/shared/authz"
)

type DeleteClientCommand struct {
	Actor    authz.Actor
	ClientID string
}

type DeleteClientUseCase struct {
	Reader ports.ClientReader
	Writer ports.ClientWriter
	Logger *slog.Logger
}

func (uc DeleteClientUseCase) Execute(ctx context.Context, cmd DeleteClientCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(cmd.Actor, authz.RoleAdmin); err != nil {
		return domainerrors.ErrForbidden
	}
	if _, err := uc.Reader.FindClientByID(ctx, cmd.Actor.HubID, cmd.ClientID); err != nil {
		return err
	}
	if err := uc.Writer.DeleteClient(ctx, cmd.ClientID); err != nil {
		return err
	}
	logger.Info("client deleted",
		"event", "client_deleted",
		"module", "client-relations/client-service",
		"layer", "application",
		"client_id", cmd.ClientID,
		"hub_id", cmd.Actor.HubID,
	)
	return nil
}
