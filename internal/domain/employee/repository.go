package employee

import "context"

// Directory resolves employee identities. Read-only by contract.
type Directory interface {
	GetByID(ctx context.Context, id string) (Employee, error)
}
