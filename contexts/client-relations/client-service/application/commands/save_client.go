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

type SaveClientCommand struct {
	Actor    authz.Actor
	ClientID string
	Update   entities.ClientUpdate
}

type SaveClientUseCase struct {
	Reader ports.ClientReader
	Writer ports.ClientWriter
	Logger *slog.Logger
}

func (uc SaveClientUseCase) Execute(ctx context.Context, cmd SaveClientCommand) (entities.Client, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(cmd.Actor, authz.RoleUser); err != nil {
		return entities.Client{}, domainerrors.ErrForbidden
	}
	if err := application.EnsureClientAccess(ctx, uc.Reader, cmd.Actor, cmd.ClientID); err != nil {
		return entities.Client{}, err
	}

	if strings.TrimSpace(cmd.Update.Email) != "" {
		email, ok := entities.NormalizeEmail(cmd.Update.Email)
		if !ok {
			return entities.Client{}, domainerrors.ErrInvalidEmail
		}
		cmd.Update.Email = email
	}

	// Confirms existence and hub ownership before writing.
	if _, err := uc.Reader.FindClientByID(ctx, cmd.Actor.HubID, cmd.ClientID); err != nil {
		return entities.Client{}, err
	}

	updated, err := uc.Writer.UpdateClient(ctx, cmd.ClientID, cmd.Update)
	if err != nil {
		return entities.Client{}, err
	}
	logger.Info("client saved",
		"event", "client_saved",
		"module", "client-relations/client-service",
		"layer", "application",
		"client_id", updated.ClientID,
		"hub_id", updated.HubID,
	)
	return updated, nil
}
