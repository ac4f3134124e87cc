package investments

import "context"

type Repository interface {
	Create(ctx context.Context, holding *Holding) error
	GetByID(ctx context.Context, userID, holdingID string) (*Holding, error)
	ListByUser(ctx context.Context, userID string) ([]Holding, error)
	Update(ctx context.Context, holding *Holding) error
	Delete(ctx context.Context, userID, holdingID string) (bool, error)
}

// QuoteProvider is the slice of the quotes client the service needs.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (float64, error)
	ValidateSymbol(ctx context.Context, symbol string) (bool, error)
}
