package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "crmhub/contexts/client-relations/client-service/application"
	"crmhub/contexts/client-relations/client-service/domain/entities"
	"crmhub/contexts/client-relations/client-service/ports"
)

const (
	defaultClientImportTopic         = "emailer.client.import"
	defaultClientImportConsumerGroup = "client-service-import-cg"
)

// clientImportNotification mirrors the emailer's client payload.
type clientImportNotification struct {
	HubID   int               `json:"hub_id"`
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Phone   string            `json:"phone"`
	Address string            `json:"address"`
	Fields  map[string]string `json:"fields"`
}

// ClientImportConsumer upserts client records pushed over the notification
// bus. A malformed payload is logged and skipped; the subscription survives.
type ClientImportConsumer struct {
	Subscriber    ports.EventSubscriber
	Clients       ports.ClientWriter
	Topic         string
	ConsumerGroup string
	Disabled      bool
	Logger        *slog.Logger
}

func (c ClientImportConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("client import consumer disabled by feature flag",
			"event", "client_import_consumer_disabled",
			"module", "client-relations/client-service",
			"layer", "worker",
		)
		return nil
	}
	topic := strings.TrimSpace(c.Topic)
	if topic == "" {
		topic = defaultClientImportTopic
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultClientImportConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, topic, group, c.handleClientImport)
}

func (c ClientImportConsumer) handleClientImport(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload clientImportNotification
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("client import payload decode failed",
			"event", "client_import_decode_failed",
			"module", "client-relations/client-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}
	if payload.HubID <= 0 || strings.TrimSpace(payload.Name) == "" {
		logger.Warn("client import payload incomplete",
			"event", "client_import_payload_incomplete",
			"module", "client-relations/client-service",
			"layer", "worker",
			"event_id", event.EventID,
			"hub_id", payload.HubID,
		)
		return nil
	}
	email, ok := entities.NormalizeEmail(payload.Email)
	if !ok {
		logger.Warn("client import payload has invalid email",
			"event", "client_import_invalid_email",
			"module", "client-relations/client-service",
			"layer", "worker",
			"event_id", event.EventID,
			"hub_id", payload.HubID,
		)
		return nil
	}

	count, err := c.Clients.UpsertClients(ctx, []entities.NewClient{{
		HubID:   payload.HubID,
		Name:    strings.TrimSpace(payload.Name),
		Email:   email,
		Phone:   strings.TrimSpace(payload.Phone),
		Address: strings.TrimSpace(payload.Address),
		Fields:  payload.Fields,
	}})
	if err != nil {
		logger.Error("client import upsert failed",
			"event", "client_import_upsert_failed",
			"module", "client-relations/client-service",
			"layer", "worker",
			"event_id", event.EventID,
			"hub_id", payload.HubID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("client import applied",
		"event", "client_import_applied",
		"module", "client-relations/client-service",
		"layer", "worker",
		"event_id", event.EventID,
		"hub_id", payload.HubID,
		"written", count,
	)
	return nil
}
