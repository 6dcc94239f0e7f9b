package manager

import (
	"log/slog"

	httpadapter "crmhub/contexts/client-relations/manager-service/adapters/http"
	"crmhub/contexts/client-relations/manager-service/adapters/memory"
	"crmhub/contexts/client-relations/manager-service/application/commands"
	"crmhub/contexts/client-relations/manager-service/application/queries"
	"crmhub/contexts/client-relations/manager-service/ports"
)

// Module is the manager-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Reader ports.ManagerReader
	Writer ports.ManagerWriter
	Logger *slog.Logger
}

// NewModule wires the manager use-cases and transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	getManager := queries.GetManagerUseCase{
		Managers: deps.Reader,
		Logger:   deps.Logger,
	}
	listManagers := queries.ListManagersUseCase{
		Managers: deps.Reader,
		Logger:   deps.Logger,
	}
	listClientManagers := queries.ListClientManagersUseCase{
		Managers: deps.Reader,
		Logger:   deps.Logger,
	}
	upsertManager := commands.UpsertManagerUseCase{
		Managers: deps.Writer,
		Logger:   deps.Logger,
	}
	assignClients := commands.AssignClientsUseCase{
		Reader: deps.Reader,
		Writer: deps.Writer,
		Logger: deps.Logger,
	}
	deleteManager := commands.DeleteManagerUseCase{
		Reader: deps.Reader,
		Writer: deps.Writer,
		Logger: deps.Logger,
	}

	handler := httpadapter.Handler{
		GetManager:         getManager,
		ListManagers:       listManagers,
		ListClientManagers: listClientManagers,
		Upsert:             upsertManager,
		AssignClients:      assignClients,
		DeleteManager:      deleteManager,
		Logger:             deps.Logger,
	}

	return Module{
		Handler: handler,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Reader: store,
		Writer: store,
		Logger: logger,
	})
	module.Store = store
	return module
}
