package expenses

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultCategory = "other"
	defaultLimit    = 50
	maxLimit        = 200
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Expense, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	expense := Expense{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Category:    normalizeCategory(input.Category),
		Date:        normalizeDate(input.Date),
	}
	if err := s.repo.Create(ctx, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *Service) Get(ctx context.Context, userID, expenseID string) (*Expense, error) {
	return s.repo.GetByID(ctx, userID, expenseID)
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Expense, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Category = normalizeFilterCategory(filter.Category)

	items, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []Expense{}
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Expense, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	expense, err := s.repo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	expense.Title = title
	expense.Description = strings.TrimSpace(input.Description)
	expense.Amount = input.Amount
	expense.Category = normalizeCategory(input.Category)
	expense.Date = normalizeDate(input.Date)
	expense.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *Service) Delete(ctx context.Context, userID, expenseID string) error {
	deleted, err := s.repo.Delete(ctx, userID, expenseID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}
	return nil
}

func normalizeCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return defaultCategory
	}
	return category
}

func normalizeFilterCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func normalizeDate(date time.Time) time.Time {
	if date.IsZero() {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	return date.UTC().Truncate(24 * time.Hour)
}
