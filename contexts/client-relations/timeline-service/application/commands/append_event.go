package commands

import (
	"context"
	"log/slog"
	"strings"

	application "crmhub/contexts/client-relations/timeline-service/application"
	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	"crmhub/contexts/client-relations/timeline-service/ports"
)

// AppendEventUseCase stamps identity and time onto a new event and hands it
// to the store's idempotent append. It carries no authorization gate: the
// correlation workers and the gated manual commands both funnel through it.
type AppendEventUseCase struct {
	Events      ports.EventStore
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc AppendEventUseCase) Execute(ctx context.Context, input entities.NewEvent) (entities.Event, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(input.ClientID) == "" || strings.TrimSpace(input.ManagerID) == "" {
		return entities.Event{}, domainerrors.ErrInvalidEventInput
	}
	if strings.TrimSpace(string(input.Type)) == "" {
		return entities.Event{}, domainerrors.ErrInvalidEventInput
	}

	eventID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Event{}, err
	}
	stored, err := uc.Events.AppendEvent(ctx, entities.Event{
		EventID:   eventID,
		ClientID:  strings.TrimSpace(input.ClientID),
		ManagerID: strings.TrimSpace(input.ManagerID),
		Type:      input.Type,
		Payload:   input.Payload,
		CreatedAt: uc.Clock.Now(),
	})
	if err != nil {
		return entities.Event{}, err
	}

	deduplicated := stored.EventID != eventID
	logger.Info("timeline event appended",
		"event", "timeline_event_appended",
		"module", "client-relations/timeline-service",
		"layer", "application",
		"client_id", stored.ClientID,
		"manager_id", stored.ManagerID,
		"event_type", string(stored.Type),
		"deduplicated", deduplicated,
	)
	return stored, nil
}
