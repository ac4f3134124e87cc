package analytics

import "context"

type Repository interface {
	Summary(ctx context.Context, userID string, filter SummaryFilter) (SummaryResult, error)
	ByCategory(ctx context.Context, userID string, filter ByCategoryFilter) ([]ByCategoryRow, error)
	// Monthly returns per-month totals ordered by month ascending, months
	// with no expenses omitted.
	Monthly(ctx context.Context, userID string, filter MonthlyFilter) ([]MonthlyRow, error)
}
