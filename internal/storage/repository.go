// Package storage defines the persistence contracts implemented by the
// SQLite adapter. Handlers and services depend on these interfaces, never
// on the database handle directly.
package storage

import "github.com/registre/server/internal/domain/persons"

// Repository aggregates the per-entity repositories backed by one store.
type Repository interface {
	Persons() persons.Repository
}
