package commands

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	application "crmhub/contexts/client-relations/timeline-service/application"
	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	"crmhub/contexts/client-relations/timeline-service/ports"
	"crmhub/internal/shared/authz"
)

type AddAttachmentCommand struct {
	Actor    authz.Actor
	ClientID string
	URL      string
	Title    string
}

// AddAttachmentUseCase appends a document-link event pointing at an external
// resource.
type AddAttachmentUseCase struct {
	Clients  ports.ClientDirectory
	Managers ports.ManagerDirectory
	Append   AppendEventUseCase
	Logger   *slog.Logger
}

func (uc AddAttachmentUseCase) Execute(ctx context.Context, cmd AddAttachmentCommand) (entities.Event, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := authz.Decide(cmd.Actor, authz.RoleUser); err != nil {
		return entities.Event{}, domainerrors.ErrForbidden
	}
	if err := application.EnsureClientAccess(ctx, uc.Clients, cmd.Actor, cmd.ClientID); err != nil {
		return entities.Event{}, err
	}

	link := strings.TrimSpace(cmd.URL)
	parsed, err := url.Parse(link)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
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

	payload := map[string]any{"url": link}
	if title := strings.TrimSpace(cmd.Title); title != "" {
		payload["text"] = title
	}
	stored, err := uc.Append.Execute(ctx, entities.NewEvent{
		ClientID:  client.ClientID,
		ManagerID: manager.ManagerID,
		Type:      entities.EventTypeDocumentLink,
		Payload:   payload,
	})
	if err != nil {
		return entities.Event{}, err
	}
	logger.Debug("attachment added",
		"event", "timeline_attachment_added",
		"module", "client-relations/timeline-service",
		"layer", "application",
		"client_id", client.ClientID,
		"manager_id", manager.ManagerID,
	)
	return stored, nil
}
