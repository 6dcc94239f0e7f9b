package commands

import (
	"context"
	"log/slog"

	application "crmhub/contexts/client-relations/client-service/application"
	domainerrors "crmhub/contexts/client-relations/client-service/domain/errors"
	"crmhub/contexts/client-relations/client-service/ports"
	"crmhub/internal/shared/authz"
)

type ReplaceFieldsCommand struct {
	Actor    authz.Actor
	ClientID string
	Fields   map[string]string
}

// ReplaceFieldsUseCase swaps a client's custom fields wholesale: keys absent
// from the new set are gone afterwards.
type ReplaceFieldsUseCase struct {
	Reader ports.ClientReader
	Writer ports.ClientWriter
	Logger *slog.Logger
}

func (uc ReplaceFieldsUseCase) Execute(ctx context.Context, cmd ReplaceFieldsCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(cmd.Actor, authz.RoleUser); err != nil {
		return domainerrors.ErrForbidden
	}
	if err := application.EnsureClientAccess(ctx, uc.Reader, cmd.Actor, cmd.ClientID); err != nil {
		return err
	}
	if _, err := uc.Reader.FindClientByID(ctx, cmd.Actor.HubID, cmd.ClientID); err != nil {
		return err
	}
	if err := uc.Writer.ReplaceClientFields(ctx, cmd.ClientID, cmd.Fields); err != nil {
		return err
	}
	logger.Info("client fields replaced",
		"event", "client_fields_replaced",
		"module", "client-relations/client-service",
		"layer", "application",
		"client_id", cmd.ClientID,
		"field_count", len(cmd.Fields),
	)
	return nil
}
