package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	application "crmhub/contexts/client-relations/timeline-service/application"
	"crmhub/contexts/client-relations/timeline-service/application/commands"
	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	"crmhub/contexts/client-relations/timeline-service/ports"
)

const (
	defaultEmailSentTopic         = "emailer.email.sent"
	defaultEmailSentConsumerGroup = "timeline-service-email-cg"
)

// emailRecipient mirrors one entry of the emailer's recipient list.
type emailRecipient struct {
	Email  string            `json:"email"`
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

// emailSentNotification mirrors the emailer's send payload: the acting user
// plus the message and its recipient list.
type emailSentNotification struct {
	HubID       int              `json:"hub_id"`
	SenderName  string           `json:"sender_name"`
	SenderEmail string           `json:"sender_email"`
	Subject     string           `json:"subject"`
	Text        string           `json:"text"`
	Recipients  []emailRecipient `json:"recipients"`
}

// EmailSentConsumer turns outbound-email notifications into timeline events.
// The handler only decodes and dispatches: each notification is processed by
// its own goroutine, so no ordering holds between notifications. Within one
// notification the recipient list is walked sequentially; recipients with no
// client record are skipped.
type EmailSentConsumer struct {
	Subscriber    ports.EventSubscriber
	Clients       ports.ClientDirectory
	Managers      ports.ManagerDirectory
	Append        commands.AppendEventUseCase
	Topic         string
	ConsumerGroup string
	Disabled      bool
	Logger        *slog.Logger
}

func (c EmailSentConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("email-sent consumer disabled by feature flag",
			"event", "email_sent_consumer_disabled",
			"module", "client-relations/timeline-service",
			"layer", "worker",
		)
		return nil
	}
	topic := strings.TrimSpace(c.Topic)
	if topic == "" {
		topic = defaultEmailSentTopic
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultEmailSentConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, topic, group, c.handleEmailSent)
}

func (c EmailSentConsumer) handleEmailSent(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload emailSentNotification
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("email-sent payload decode failed",
			"event", "email_sent_decode_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}
	if payload.HubID <= 0 || strings.TrimSpace(payload.SenderEmail) == "" {
		logger.Warn("email-sent payload incomplete",
			"event", "email_sent_payload_incomplete",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"hub_id", payload.HubID,
		)
		return nil
	}

	go c.process(ctx, event.EventID, payload)
	return nil
}

// process runs off the subscription loop, one goroutine per notification.
func (c EmailSentConsumer) process(ctx context.Context, eventID string, payload emailSentNotification) {
	logger := application.ResolveLogger(c.Logger)

	senderName := strings.TrimSpace(payload.SenderName)
	if senderName == "" {
		senderName = strings.ToLower(strings.TrimSpace(payload.SenderEmail))
	}
	manager, err := c.Managers.UpsertManager(ctx, ports.ManagerUpsert{
		HubID:  payload.HubID,
		Name:   senderName,
		Email:  payload.SenderEmail,
		IsUser: true,
	})
	if err != nil {
		logger.Error("email-sent manager upsert failed",
			"event", "email_sent_manager_upsert_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", eventID,
			"hub_id", payload.HubID,
			"error", err.Error(),
		)
		return
	}

	eventPayload := map[string]any{"subject": strings.TrimSpace(payload.Subject)}
	if text := strings.TrimSpace(payload.Text); text != "" {
		eventPayload["text"] = text
	}

	for _, recipient := range payload.Recipients {
		address := strings.ToLower(strings.TrimSpace(recipient.Email))
		if address == "" {
			continue
		}
		client, err := c.Clients.FindClientByEmail(ctx, payload.HubID, address)
		if err != nil {
			if errors.Is(err, domainerrors.ErrClientNotFound) {
				logger.Info("email recipient has no client record",
					"event", "email_sent_correlation_miss",
					"module", "client-relations/timeline-service",
					"layer", "worker",
					"event_id", eventID,
					"hub_id", payload.HubID,
				)
				continue
			}
			logger.Error("email recipient lookup failed",
				"event", "email_sent_client_lookup_failed",
				"module", "client-relations/timeline-service",
				"layer", "worker",
				"event_id", eventID,
				"hub_id", payload.HubID,
				"error", err.Error(),
			)
			continue
		}

		if _, err := c.Append.Execute(ctx, entities.NewEvent{
			ClientID:  client.ClientID,
			ManagerID: manager.ManagerID,
			Type:      entities.EventTypeEmail,
			Payload:   eventPayload,
		}); err != nil {
			logger.Error("email event append failed",
				"event", "email_sent_append_failed",
				"module", "client-relations/timeline-service",
				"layer", "worker",
				"event_id", eventID,
				"client_id", client.ClientID,
				"error", err.Error(),
			)
		}
	}
}
