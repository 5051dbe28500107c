package shift

import "context"

// Repository reads shift configuration. Read-only by contract.
type Repository interface {
	GetByID(ctx context.Context, id string) (Shift, error)
}
