package timeline

import (
	"log/slog"

	httpadapter "crmhub/contexts/client-relations/timeline-service/adapters/http"
	"crmhub/contexts/client-relations/timeline-service/adapters/memory"
	"crmhub/contexts/client-relations/timeline-service/application/commands"
	"crmhub/contexts/client-relations/timeline-service/application/queries"
	"crmhub/contexts/client-relations/timeline-service/application/workers"
	"crmhub/contexts/client-relations/timeline-service/ports"
)

// Module is the timeline-service composition root exposed to runtime wiring.
type Module struct {
	Handler           httpadapter.Handler
	ReplyConsumer     *workers.ReplyConsumer
	EmailSentConsumer *workers.EmailSentConsumer
	Store             *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Events      ports.EventStore
	Clients     ports.ClientDirectory
	Managers    ports.ManagerDirectory
	Clock       ports.Clock
	IDGenerator ports.IDGenerator

	Subscriber             ports.EventSubscriber
	ReplyTopic             string
	ReplyConsumerGroup     string
	ReplyDisabled          bool
	EmailSentTopic         string
	EmailSentConsumerGroup string
	EmailSentDisabled      bool

	Logger *slog.Logger
}

// NewModule wires the timeline use-cases, transport handler and the two
// correlation consumers using explicit ports.
func NewModule(deps Dependencies) Module {
	appendEvent := commands.AppendEventUseCase{
		Events:      deps.Events,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	addComment := commands.AddCommentUseCase{
		Clients:  deps.Clients,
		Managers: deps.Managers,
		Append:   appendEvent,
		Logger:   deps.Logger,
	}
	addAttachment := commands.AddAttachmentUseCase{
		Clients:  deps.Clients,
		Managers: deps.Managers,
		Append:   appendEvent,
		Logger:   deps.Logger,
	}
	listEvents := queries.ListEventsUseCase{
		Clients: deps.Clients,
		Events:  deps.Events,
		Logger:  deps.Logger,
	}

	handler := httpadapter.Handler{
		ListEvents:    listEvents,
		AddComment:    addComment,
		AddAttachment: addAttachment,
		Logger:        deps.Logger,
	}

	var replyConsumer *workers.ReplyConsumer
	var emailSentConsumer *workers.EmailSentConsumer
	if deps.Subscriber != nil {
		replyConsumer = &workers.ReplyConsumer{
			Subscriber:    deps.Subscriber,
			Clients:       deps.Clients,
			Managers:      deps.Managers,
			Append:        appendEvent,
			Topic:         deps.ReplyTopic,
			ConsumerGroup: deps.ReplyConsumerGroup,
			Disabled:      deps.ReplyDisabled,
			Logger:        deps.Logger,
		}
		emailSentConsumer = &workers.EmailSentConsumer{
			Subscriber:    deps.Subscriber,
			Clients:       deps.Clients,
			Managers:      deps.Managers,
			Append:        appendEvent,
			Topic:         deps.EmailSentTopic,
			ConsumerGroup: deps.EmailSentConsumerGroup,
			Disabled:      deps.EmailSentDisabled,
			Logger:        deps.Logger,
		}
	}

	return Module{
		Handler:           handler,
		ReplyConsumer:     replyConsumer,
		EmailSentConsumer: emailSentConsumer,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger, subscriber ports.EventSubscriber) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Events:      store,
		Clients:     store,
		Managers:    store,
		Clock:       store,
		IDGenerator: store,
		Subscriber:  subscriber,
		Logger:      logger,
	})
	module.Store = store
	return module
}
