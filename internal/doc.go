// Package internal documents the EventLoom server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: business logic and domain models (users, events, orders)
// - storage: database access and repositories (pgx + Postgres)
// - webhook: identity provider delivery verification and payloads
// - auth, audit, clerk, config, email, metrics: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
