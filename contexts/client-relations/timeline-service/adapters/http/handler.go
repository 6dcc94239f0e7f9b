package httpadapter

import (
	"context"
	"log/slog"

	application "crmhub/contexts/client-relations/timeline-service/application"
	"crmhub/contexts/client-relations/timeline-service/application/commands"
	"crmhub/contexts/client-relations/timeline-service/application/queries"
	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	httptransport "crmhub/contexts/client-relations/timeline-service/transport/http"
	"crmhub/internal/shared/authz"
	"crmhub/internal/shared/pagination"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	ListEvents    queries.ListEventsUseCase
	AddComment    commands.AddCommentUseCase
	AddAttachment commands.AddAttachmentUseCase
	Logger        *slog.Logger
}

func (h Handler) ListEventsHandler(
	ctx context.Context,
	actor authz.Actor,
	clientID string,
	request httptransport.ListEventsRequest,
) (httptransport.ListEventsResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http timeline list received",
		"event", "timeline_http_list_received",
		"module", "client-relations/timeline-service",
		"layer", "transport",
		"client_id", clientID,
	)

	result, err := h.ListEvents.Execute(ctx, queries.ListEventsQuery{
		Actor:    actor,
		ClientID: clientID,
		Type:     request.Type,
		Page:     request.Page,
		PerPage:  request.PerPage,
	})
	if err != nil {
		logger.Error("http timeline list failed",
			"event", "timeline_http_list_failed",
			"module", "client-relations/timeline-service",
			"layer", "transport",
			"client_id", clientID,
			"error", err.Error(),
		)
		return httptransport.ListEventsResponse{}, err
	}

	items := make([]httptransport.EventDTO, 0, len(result.Events.Items))
	for _, event := range result.Events.Items {
		items = append(items, eventDTO(event))
	}
	return httptransport.ListEventsResponse{
		Total:  result.Total,
		Page:   result.Events.Page,
		Pages:  pageDTOs(result.Events.Pages),
		Events: items,
	}, nil
}

func (h Handler) AddCommentHandler(
	ctx context.Context,
	actor authz.Actor,
	clientID string,
	request httptransport.AddCommentRequest,
) (httptransport.AppendEventResponse, error) {
	stored, err := h.AddComment.Execute(ctx, commands.AddCommentCommand{
		Actor:    actor,
		ClientID: clientID,
		Text:     request.Text,
	})
	if err != nil {
		return httptransport.AppendEventResponse{}, err
	}
	return httptransport.AppendEventResponse{Event: bareEventDTO(stored)}, nil
}

func (h Handler) AddAttachmentHandler(
	ctx context.Context,
	actor authz.Actor,
	clientID string,
	request httptransport.AddAttachmentRequest,
) (httptransport.AppendEventResponse, error) {
	stored, err := h.AddAttachment.Execute(ctx, commands.AddAttachmentCommand{
		Actor:    actor,
		ClientID: clientID,
		URL:      request.URL,
		Title:    request.Title,
	})
	if err != nil {
		return httptransport.AppendEventResponse{}, err
	}
	return httptransport.AppendEventResponse{Event: bareEventDTO(stored)}, nil
}

func eventDTO(event entities.EventWithManager) httptransport.EventDTO {
	dto := bareEventDTO(event.Event)
	dto.ManagerName = event.ManagerName
	dto.ManagerEmail = event.ManagerEmail
	return dto
}

func bareEventDTO(event entities.Event) httptransport.EventDTO {
	return httptransport.EventDTO{
		EventID:   event.EventID,
		ClientID:  event.ClientID,
		ManagerID: event.ManagerID,
		Type:      string(event.Type),
		Payload:   event.Payload,
		CreatedAt: event.CreatedAt,
	}
}

func pageDTOs(pages []pagination.Page) []httptransport.PageDTO {
	out := make([]httptransport.PageDTO, 0, len(pages))
	for _, page := range pages {
		if page.Ellipsis {
			out = append(out, httptransport.PageDTO{Ellipsis: true})
			continue
		}
		number := page.Number
		out = append(out, httptransport.PageDTO{Number: &number})
	}
	return out
}
