package persons

import "context"

// Repository is the persistence contract for persons. Implementations
// must report zero-rows-affected on Update/Delete as ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]Person, error)
	GetByID(ctx context.Context, id int64) (*Person, error)
	Create(ctx context.Context, name, address string) (*Person, error)
	Update(ctx context.Context, id int64, name, address string) (*Person, error)
	Delete(ctx context.Context, id int64) error
}
