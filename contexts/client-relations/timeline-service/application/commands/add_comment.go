package commands

import (
	"context"
	"log/slog"
	"strings"

	application "crmhub/contexts/client-relations/timeline-service/application"
	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	"crmhub/contexts/client-relations/timeline-service/ports"
	"crmhub/internal/shared/authz"
)

type AddCommentCommand struct {
	Actor    authz.Actor
	ClientID string
	Text     string
}

// AddCommentUseCase resolves the acting user to a manager row, then appends
// a comment event attributed to it.
type AddCommentUseCase struct {
	Clients  ports.ClientDirectory
	Managers ports.ManagerDirectory
	Append   AppendEventUseCase
	Logger   *slog.Logger
}

func (uc AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (entities.Event, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(cmd.Actor, authz.RoleUser); err != nil {
		return entities.Event{}, domainerrors.ErrForbidden
	}
	if err := application.EnsureClientAccess(ctx, uc.Clients, cmd.Actor, cmd.ClientID); err != nil {
		return entities.Event{}, err
	}
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return entities.Event{}, domainerrors.ErrInvalidEventInput
	}

	client, err := uc.Clients.FindClientByID(ctx, cmd.Actor.HubID, cmd.ClientID)
	if err != nil {
		return entities.Event{}, err
	}
	manager, err := uc.Managers.UpsertManager(ctx, ports.ManagerUpsert{
		HubID:  cmd.Actor.HubID,
		Name:   cmd.Actor.Name,
		Email:  cmd.Actor.Email,
		IsUser: true,
	})
	if err != nil {
		return entities.Event{}, err
	}

	stored, err := uc.Append.Execute(ctx, entities.NewEvent{
		ClientID:  client.ClientID,
		ManagerID: manager.ManagerID,
		Type:      entities.EventTypeComment,
		Payload:   map[string]any{"text": text},
	})
	if err != nil {
		return entities.Event{}, err
	}
	logger.Debug("comment added",
		"event", "timeline_comment_added",
		"module", "client-relations/timeline-service",
		"layer", "application",
		"client_id", client.ClientID,
		"manager_id", manager.ManagerID,
	)
	return stored, nil
}
