// Package manager implements the manager-service inside crmhub.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries using explicit ports
// - ports: stable boundaries for persistence
// - adapters: concrete HTTP, memory and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the client-relations context.
// - The (hub_id, email) upsert is the only write other modules depend on
//   semantically; they reach the shared tables through their own adapters.
package manager
