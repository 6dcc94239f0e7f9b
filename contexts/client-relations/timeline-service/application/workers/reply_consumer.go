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
	defaultReplyTopic         = "emailer.email.reply"
	defaultReplyConsumerGroup = "timeline-service-reply-cg"
)

// replyNotification mirrors the emailer's reply payload.
type replyNotification struct {
	HubID   int    `json:"hub_id"`
	From    string `json:"from"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// unsubscribeNotification mirrors the emailer's unsubscribe payload, carried
// on the same topic as replies.
type unsubscribeNotification struct {
	HubID  int    `json:"hub_id"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// ReplyConsumer turns inbound reply and unsubscribe notifications into
// timeline events. Handling is serial per message: the subscription loop
// delivers the next notification only after the handler returns, so events
// land in receipt order. The event is attributed to the client's first
// associated manager; a client with no managers gets a non-user manager
// upserted from the notification's sender address.
type ReplyConsumer struct {
	Subscriber    ports.EventSubscriber
	Clients       ports.ClientDirectory
	Managers      ports.ManagerDirectory
	Append        commands.AppendEventUseCase
	Topic         string
	ConsumerGroup string
	Disabled      bool
	Logger        *slog.Logger
}

func (c ReplyConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("reply consumer disabled by feature flag",
			"event", "reply_consumer_disabled",
			"module", "client-relations/timeline-service",
			"layer", "worker",
		)
		return nil
	}
	topic := strings.TrimSpace(c.Topic)
	if topic == "" {
		topic = defaultReplyTopic
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultReplyConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, topic, group, c.handleReply)
}

func (c ReplyConsumer) handleReply(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload replyNotification
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("reply payload decode failed",
			"event", "reply_decode_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}
	sender := strings.ToLower(strings.TrimSpace(payload.From))
	if payload.HubID <= 0 || sender == "" {
		// Not a reply shape; the topic also carries unsubscribe notifications.
		return c.handleUnsubscribe(ctx, event)
	}

	client, err := c.Clients.FindClientByEmail(ctx, payload.HubID, sender)
	if err != nil {
		if errors.Is(err, domainerrors.ErrClientNotFound) {
			logger.Info("reply sender has no client record",
				"event", "reply_correlation_miss",
				"module", "client-relations/timeline-service",
				"layer", "worker",
				"event_id", event.EventID,
				"hub_id", payload.HubID,
			)
			return nil
		}
		logger.Error("reply client lookup failed",
			"event", "reply_client_lookup_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"hub_id", payload.HubID,
			"error", err.Error(),
		)
		return err
	}

	manager, err := c.resolveManager(ctx, client, payload.HubID, payload.Name, payload.From)
	if err != nil {
		logger.Error("reply manager resolution failed",
			"event", "reply_manager_resolution_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"client_id", client.ClientID,
			"error", err.Error(),
		)
		return err
	}

	eventPayload := map[string]any{"text": payload.Text}
	if subject := strings.TrimSpace(payload.Subject); subject != "" {
		eventPayload["subject"] = subject
	}
	if _, err := c.Append.Execute(ctx, entities.NewEvent{
		ClientID:  client.ClientID,
		ManagerID: manager.ManagerID,
		Type:      entities.EventTypeReply,
		Payload:   eventPayload,
	}); err != nil {
		logger.Error("reply event append failed",
			"event", "reply_append_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"client_id", client.ClientID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// handleUnsubscribe decodes the unsubscribe shape and appends an
// unsubscribed event through the same correlation path as replies.
func (c ReplyConsumer) handleUnsubscribe(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload unsubscribeNotification
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("unsubscribe payload decode failed",
			"event", "unsubscribe_decode_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}
	address := strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.HubID <= 0 || address == "" {
		logger.Warn("reply payload incomplete",
			"event", "reply_payload_incomplete",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"hub_id", payload.HubID,
		)
		return nil
	}

	client, err := c.Clients.FindClientByEmail(ctx, payload.HubID, address)
	if err != nil {
		if errors.Is(err, domainerrors.ErrClientNotFound) {
			logger.Info("unsubscribe address has no client record",
				"event", "unsubscribe_correlation_miss",
				"module", "client-relations/timeline-service",
				"layer", "worker",
				"event_id", event.EventID,
				"hub_id", payload.HubID,
			)
			return nil
		}
		logger.Error("unsubscribe client lookup failed",
			"event", "unsubscribe_client_lookup_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"hub_id", payload.HubID,
			"error", err.Error(),
		)
		return err
	}

	manager, err := c.resolveManager(ctx, client, payload.HubID, "", payload.Email)
	if err != nil {
		logger.Error("unsubscribe manager resolution failed",
			"event", "unsubscribe_manager_resolution_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"client_id", client.ClientID,
			"error", err.Error(),
		)
		return err
	}

	eventPayload := map[string]any{}
	if reason := strings.TrimSpace(payload.Reason); reason != "" {
		eventPayload["reason"] = reason
	}
	if _, err := c.Append.Execute(ctx, entities.NewEvent{
		ClientID:  client.ClientID,
		ManagerID: manager.ManagerID,
		Type:      entities.EventTypeUnsubscribed,
		Payload:   eventPayload,
	}); err != nil {
		logger.Error("unsubscribe event append failed",
			"event", "unsubscribe_append_failed",
			"module", "client-relations/timeline-service",
			"layer", "worker",
			"event_id", event.EventID,
			"client_id", client.ClientID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// resolveManager picks the client's first associated manager, falling back
// to a manager row upserted from the notification's sender address when the
// client has none.
func (c ReplyConsumer) resolveManager(
	ctx context.Context,
	client ports.ClientRef,
	hubID int,
	senderName string,
	senderEmail string,
) (ports.ManagerRef, error) {
	managers, err := c.Managers.ListManagersForClient(ctx, client.ClientID)
	if err != nil {
		return ports.ManagerRef{}, err
	}
	if len(managers) > 0 {
		return managers[0], nil
	}

	name := strings.TrimSpace(senderName)
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(senderEmail))
	}
	return c.Managers.UpsertManager(ctx, ports.ManagerUpsert{
		HubID:  hubID,
		Name:   name,
		Email:  senderEmail,
		IsUser: false,
	})
}
