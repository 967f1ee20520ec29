// Package internal documents the Registre server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, response envelope, and routing
// - domain: business logic and domain models
// - storage: database access and repositories (SQLite)
// - auth, session, config, metrics: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
