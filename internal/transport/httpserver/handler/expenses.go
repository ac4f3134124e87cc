package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	expensesdomain "splitledger-go/internal/domain/expenses"
	"splitledger-go/internal/transport/httpserver/middleware"
)

type expenseRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

type expenseResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

type expenseListResponse struct {
	Items []expenseResponse `json:"items"`
	Total int64             `json:"total"`
}

func toExpenseResponse(expense expensesdomain.Expense) expenseResponse {
	return expenseResponse{
		ID:          expense.ID,
		Title:       expense.Title,
		Description: expense.Description,
		Amount:      expense.Amount,
		Category:    expense.Category,
		Date:        expense.Date.Format("2006-01-02"),
		CreatedAt:   expense.CreatedAt,
	}
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	items, total, err := h.Expenses.List(r.Context(), user.ID, expensesdomain.ListFilter{
		From:     from,
		To:       to,
		Category: query.Get("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.log.InternalError("expenses.list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]expenseResponse, 0, len(items))
	for _, expense := range items {
		response = append(response, toExpenseResponse(expense))
	}
	writeJSON(w, http.StatusOK, expenseListResponse{Items: response, Total: total})
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := parseDateRequired(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
			return
		}
		date = parsed
	}

	expense, err := h.Expenses.Create(r.Context(), expensesdomain.CreateInput{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
	})
	if err != nil {
		h.writeExpenseError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(*expense))
}

func (h *Handlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	expense, err := h.Expenses.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeExpenseError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(*expense))
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	expense, err := h.Expenses.Update(r.Context(), expensesdomain.UpdateInput{
		ID:          chi.URLParam(r, "id"),
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
	})
	if err != nil {
		h.writeExpenseError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(*expense))
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Expenses.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.writeExpenseError(w, err, user.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeExpenseError(w http.ResponseWriter, err error, userID string) {
	switch {
	case errors.Is(err, expensesdomain.ErrExpenseNotFound):
		writeError(w, http.StatusNotFound, "expense_not_found", "expense not found")
	case errors.Is(err, expensesdomain.ErrEmptyTitle),
		errors.Is(err, expensesdomain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError("expenses: request failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
