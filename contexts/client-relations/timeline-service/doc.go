// Package timeline implements the timeline-service inside crmhub.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence/directories/events
// - adapters: concrete HTTP, memory and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the client-relations context.
// - Client and manager rows are owned elsewhere; this module reads them
//   through its own narrow directory adapter.
// - Appends are soft-idempotent: only the most recent stored event for a
//   (client, manager, type) is consulted before insert.
package timeline
