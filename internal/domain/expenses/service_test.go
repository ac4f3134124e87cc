package expenses

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

const testUserID = "user-1"

type fakeExpensesRepo struct {
	expenses map[string]*Expense
}

func newFakeExpensesRepo() *fakeExpensesRepo {
	return &fakeExpensesRepo{expenses: make(map[string]*Expense)}
}

func (r *fakeExpensesRepo) Create(ctx context.Context, expense *Expense) error {
	copied := *expense
	r.expenses[expense.ID] = &copied
	return nil
}

func (r *fakeExpensesRepo) GetByID(ctx context.Context, userID, expenseID string) (*Expense, error) {
	expense, ok := r.expenses[expenseID]
	if !ok || expense.UserID != userID {
		return nil, ErrExpenseNotFound
	}
	copied := *expense
	return &copied, nil
}

func (r *fakeExpensesRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Expense, int64, error) {
	var matched []Expense
	for _, expense := range r.expenses {
		if expense.UserID != userID {
			continue
		}
		if filter.Category != "" && expense.Category != filter.Category {
			continue
		}
		if filter.From != nil && expense.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && expense.Date.After(*filter.To) {
			continue
		}
		matched = append(matched, *expense)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []Expense{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeExpensesRepo) Update(ctx context.Context, expense *Expense) error {
	if _, ok := r.expenses[expense.ID]; !ok {
		return ErrExpenseNotFound
	}
	copied := *expense
	r.expenses[expense.ID] = &copied
	return nil
}

func (r *fakeExpensesRepo) Delete(ctx context.Context, userID, expenseID string) (bool, error) {
	expense, ok := r.expenses[expenseID]
	if !ok || expense.UserID != userID {
		return false, nil
	}
	delete(r.expenses, expenseID)
	return true, nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateExpense(t *testing.T) {
	svc := NewService(newFakeExpensesRepo())
	ctx := context.Background()

	expense, err := svc.Create(ctx, CreateInput{
		UserID:   testUserID,
		Title:    "  Groceries  ",
		Amount:   54.20,
		Category: " Food ",
		Date:     day(2026, time.March, 5),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if expense.Title != "Groceries" {
		t.Errorf("title = %q, want trimmed", expense.Title)
	}
	if expense.Category != "food" {
		t.Errorf("category = %q, want lowercase", expense.Category)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := NewService(newFakeExpensesRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{UserID: testUserID, Title: " ", Amount: 10}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("blank title: error = %v, want ErrEmptyTitle", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: testUserID, Title: "Coffee", Amount: 0}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: error = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: testUserID, Title: "Coffee", Amount: -3}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: error = %v, want ErrInvalidAmount", err)
	}
}

func TestCreateExpenseDefaults(t *testing.T) {
	svc := NewService(newFakeExpensesRepo())
	ctx := context.Background()

	expense, err := svc.Create(ctx, CreateInput{UserID: testUserID, Title: "Coffee", Amount: 3.50})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if expense.Category != defaultCategory {
		t.Errorf("category = %q, want %q", expense.Category, defaultCategory)
	}
	if expense.Date.IsZero() {
		t.Error("zero date not defaulted")
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	repo := newFakeExpensesRepo()
	svc := NewService(repo)
	ctx := context.Background()

	seed := []CreateInput{
		{UserID: testUserID, Title: "Groceries", Amount: 50, Category: "food", Date: day(2026, time.March, 1)},
		{UserID: testUserID, Title: "Lunch", Amount: 12, Category: "food", Date: day(2026, time.March, 3)},
		{UserID: testUserID, Title: "Bus pass", Amount: 30, Category: "transport", Date: day(2026, time.March, 4)},
		{UserID: "someone-else", Title: "Dinner", Amount: 80, Category: "food", Date: day(2026, time.March, 3)},
	}
	for _, input := range seed {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	food, total, err := svc.List(ctx, testUserID, ListFilter{Category: "Food"})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 2 || len(food) != 2 {
		t.Errorf("food matches = %d (total %d), want 2", len(food), total)
	}

	from := day(2026, time.March, 2)
	recent, _, err := svc.List(ctx, testUserID, ListFilter{From: &from})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("from-filtered matches = %d, want 2", len(recent))
	}

	page, total, err := svc.List(ctx, testUserID, ListFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 3 || len(page) != 1 {
		t.Errorf("page = %d items (total %d), want 1 item of 3", len(page), total)
	}
}

func TestUpdateExpense(t *testing.T) {
	repo := newFakeExpensesRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{UserID: testUserID, Title: "Coffee", Amount: 3.50, Date: day(2026, time.March, 5)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	updated, err := svc.Update(ctx, UpdateInput{
		ID:       created.ID,
		UserID:   testUserID,
		Title:    "Coffee and cake",
		Amount:   9.00,
		Category: "food",
		Date:     day(2026, time.March, 5),
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Amount != 9.00 || updated.Title != "Coffee and cake" {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.Update(ctx, UpdateInput{ID: created.ID, UserID: "someone-else", Title: "x", Amount: 1}); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("foreign update: error = %v, want ErrExpenseNotFound", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newFakeExpensesRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{UserID: testUserID, Title: "Coffee", Amount: 3.50})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.Delete(ctx, "someone-else", created.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("foreign delete: error = %v, want ErrExpenseNotFound", err)
	}
	if err := svc.Delete(ctx, testUserID, created.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := svc.Delete(ctx, testUserID, created.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("double delete: error = %v, want ErrExpenseNotFound", err)
	}
}
