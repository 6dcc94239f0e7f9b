// Package client implements the client-service inside crmhub.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence/events
// - adapters: concrete HTTP, memory and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the client-relations context.
// - Do not import other context adapters into domain/application.
// - Timeline correlation reads client rows through its own directory
//   adapter, never through this module's packages.
package client
