package client

import (
	"log/slog"

	httpadapter "crmhub/contexts/client-relations/client-service/adapters/http"
	"crmhub/contexts/client-relations/client-service/adapters/memory"
	"crmhub/contexts/client-relations/client-service/application/commands"
	"crmhub/contexts/client-relations/client-service/application/queries"
	"crmhub/contexts/client-relations/client-service/application/workers"
	"crmhub/contexts/client-relations/client-service/ports"
)

// Module is the client-service composition root exposed to runtime wiring.
type Module struct {
	Handler        httpadapter.Handler
	ImportConsumer *workers.ClientImportConsumer
	Store          *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Reader ports.ClientReader
	Writer ports.ClientWriter

	Subscriber          ports.EventSubscriber
	ImportTopic         string
	ImportConsumerGroup string
	ImportDisabled      bool

	Logger *slog.Logger
}

// NewModule wires the client use-cases, transport handler and the import
// consumer using explicit ports.
func NewModule(deps Dependencies) Module {
	listClients := queries.ListClientsUseCase{
		Clients: deps.Reader,
		Logger:  deps.Logger,
	}
	getClient := queries.GetClientUseCase{
		Clients: deps.Reader,
		Logger:  deps.Logger,
	}
	importClients := commands.ImportClientsUseCase{
		Clients: deps.Writer,
		Logger:  deps.Logger,
	}
	saveClient := commands.SaveClientUseCase{
		Reader: deps.Reader,
		Writer: deps.Writer,
		Logger: deps.Logger,
	}
	replaceFields := commands.ReplaceFieldsUseCase{
		Reader: deps.Reader,
		Writer: deps.Writer,
		Logger: deps.Logger,
	}
	deleteClient := commands.DeleteClientUseCase{
		Reader: deps.Reader,
		Writer: deps.Writer,
		Logger: deps.Logger,
	}

	handler := httpadapter.Handler{
		ListClients:   listClients,
		GetClient:     getClient,
		ImportClients: importClients,
		SaveClient:    saveClient,
		ReplaceFields: replaceFields,
		DeleteClient:  deleteClient,
		Logger:        deps.Logger,
	}

	var consumer *workers.ClientImportConsumer
	if deps.Subscriber != nil {
		consumer = &workers.ClientImportConsumer{
			Subscriber:    deps.Subscriber,
			Clients:       deps.Writer,
			Topic:         deps.ImportTopic,
			ConsumerGroup: deps.ImportConsumerGroup,
			Disabled:      deps.ImportDisabled,
			Logger:        deps.Logger,
		}
	}

	return Module{
		Handler:        handler,
		ImportConsumer: consumer,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger, subscriber ports.EventSubscriber) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Reader:     store,
		Writer:     store,
		Subscriber: subscriber,
		Logger:     logger,
	})
	module.Store = store
	return module
}
