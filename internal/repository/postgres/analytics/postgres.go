package analytics

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	analyticsdomain "splitledger-go/internal/domain/analytics"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Summary(ctx context.Context, userID string, filter analyticsdomain.SummaryFilter) (analyticsdomain.SummaryResult, error) {
	where, args := buildExpenseWhere(userID, filter.From, filter.To, filter.Category)
	query := "SELECT COALESCE(SUM(e.amount), 0) AS total_amount, COUNT(*) AS count FROM expenses e WHERE " + where

	var row struct {
		TotalAmount float64 `gorm:"column:total_amount"`
		Count       int64   `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return analyticsdomain.SummaryResult{}, err
	}

	return analyticsdomain.SummaryResult{TotalAmount: row.TotalAmount, Count: row.Count}, nil
}

func (r *PostgresRepository) ByCategory(ctx context.Context, userID string, filter analyticsdomain.ByCategoryFilter) ([]analyticsdomain.ByCategoryRow, error) {
	where, args := buildExpenseWhere(userID, filter.From, filter.To, "")

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "SELECT e.category AS category, COALESCE(SUM(e.amount), 0) AS total, COUNT(*) AS count FROM expenses e WHERE " +
		where + " GROUP BY e.category ORDER BY total DESC LIMIT ?"
	args = append(args, limit)

	var rows []analyticsdomain.ByCategoryRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) Monthly(ctx context.Context, userID string, filter analyticsdomain.MonthlyFilter) ([]analyticsdomain.MonthlyRow, error) {
	where, args := buildExpenseWhere(userID, filter.From, filter.To, "")

	query := "SELECT to_char(date_trunc('month', e.date::timestamp), 'YYYY-MM') AS month, " +
		"COALESCE(SUM(e.amount), 0) AS total, COUNT(*) AS count FROM expenses e WHERE " +
		where + " GROUP BY 1 ORDER BY 1"

	var rows []analyticsdomain.MonthlyRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func buildExpenseWhere(userID string, from, to time.Time, category string) (string, []interface{}) {
	conditions := []string{"e.user_id = ?"}
	args := []interface{}{userID}

	if !from.IsZero() {
		conditions = append(conditions, "e.date >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		conditions = append(conditions, "e.date <= ?")
		args = append(args, to)
	}
	if category != "" {
		conditions = append(conditions, "e.category = ?")
		args = append(args, category)
	}

	return strings.Join(conditions, " AND "), args
}
