package expenses

import "context"

type Repository interface {
	Create(ctx context.Context, expense *Expense) error
	GetByID(ctx context.Context, userID, expenseID string) (*Expense, error)
	// List returns the page of matching expenses, newest first, plus the
	// total match count for pagination.
	List(ctx context.Context, userID string, filter ListFilter) ([]Expense, int64, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, userID, expenseID string) (bool, error)
}
