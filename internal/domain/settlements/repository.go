package settlements

import "context"

type Repository interface {
	Create(ctx context.Context, settlement *Settlement) error
	GetByID(ctx context.Context, settlementID string) (*Settlement, error)
	Update(ctx context.Context, settlement *Settlement) error
	// ListByIdentity returns settlements where the identity appears as payer
	// or payee, newest first.
	ListByIdentity(ctx context.Context, email string) ([]Settlement, error)
}
