package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	sharingdomain "splitledger-go/internal/domain/sharing"
	"splitledger-go/internal/split"
	"splitledger-go/internal/transport/httpserver/middleware"
)

type participantRequest struct {
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Percentage *float64 `json:"percentage,omitempty"`
	Shares     *int     `json:"shares,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
}

type sharedExpenseRequest struct {
	GroupID      *string              `json:"group_id,omitempty"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Amount       float64              `json:"amount"`
	Category     string               `json:"category"`
	Date         string               `json:"date"`
	SplitMethod  string               `json:"split_method"`
	Participants []participantRequest `json:"participants"`
}

type settleRequest struct {
	AmountPaid *float64 `json:"amount_paid,omitempty"`
}

type participantResponse struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	AmountOwed float64  `json:"amount_owed"`
	AmountPaid float64  `json:"amount_paid"`
	Percentage *float64 `json:"percentage,omitempty"`
	Shares     *int     `json:"shares,omitempty"`
	IsSettled  bool     `json:"is_settled"`
}

type sharedExpenseResponse struct {
	ID           string                `json:"id"`
	CreatorID    string                `json:"creator_id"`
	CreatorEmail string                `json:"creator_email"`
	GroupID      *string               `json:"group_id,omitempty"`
	Title        string                `json:"title"`
	Description  string                `json:"description,omitempty"`
	Amount       float64               `json:"amount"`
	Category     string                `json:"category,omitempty"`
	Date         string                `json:"date"`
	SplitMethod  string                `json:"split_method"`
	Settled      bool                  `json:"settled"`
	Participants []participantResponse `json:"participants"`
	CreatedAt    time.Time             `json:"created_at"`
}

func toParticipantResponse(p sharingdomain.Participant) participantResponse {
	return participantResponse{
		ID:         p.ID,
		Email:      p.Email,
		Name:       p.Name,
		AmountOwed: p.AmountOwed,
		AmountPaid: p.AmountPaid,
		Percentage: p.Percentage,
		Shares:     p.Shares,
		IsSettled:  p.IsSettled,
	}
}

func toSharedExpenseResponse(expense *sharingdomain.ExpenseWithParticipants) sharedExpenseResponse {
	participants := make([]participantResponse, 0, len(expense.Participants))
	for _, p := range expense.Participants {
		participants = append(participants, toParticipantResponse(p))
	}
	return sharedExpenseResponse{
		ID:           expense.ID,
		CreatorID:    expense.CreatorID,
		CreatorEmail: expense.CreatorEmail,
		GroupID:      expense.GroupID,
		Title:        expense.Title,
		Description:  expense.Description,
		Amount:       expense.Amount,
		Category:     expense.Category,
		Date:         expense.Date.Format("2006-01-02"),
		SplitMethod:  expense.SplitMethod,
		Settled:      expense.Settled(),
		Participants: participants,
		CreatedAt:    expense.CreatedAt,
	}
}

func toParticipantInputs(reqs []participantRequest) []sharingdomain.ParticipantInput {
	inputs := make([]sharingdomain.ParticipantInput, 0, len(reqs))
	for _, p := range reqs {
		inputs = append(inputs, sharingdomain.ParticipantInput{
			Email:      p.Email,
			Name:       p.Name,
			Percentage: p.Percentage,
			Shares:     p.Shares,
			Amount:     p.Amount,
		})
	}
	return inputs
}

func (h *Handlers) ListSharedExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.Sharing.ListExpenses(r.Context(), user.ID, user.Email)
	if err != nil {
		h.log.InternalError("sharing.list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]sharedExpenseResponse, 0, len(items))
	for i := range items {
		response = append(response, toSharedExpenseResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateSharedExpense(w http.ResponseWriter, r *http.Request) {
	var req sharedExpenseRequest
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

	creator, err := h.Users.Get(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("sharing.create: load creator failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	expense, err := h.Sharing.CreateExpense(r.Context(), sharingdomain.CreateExpenseInput{
		CreatorID:    user.ID,
		CreatorEmail: user.Email,
		CreatorName:  creator.Name,
		GroupID:      req.GroupID,
		Title:        req.Title,
		Description:  req.Description,
		Amount:       req.Amount,
		Category:     req.Category,
		Date:         date,
		Method:       req.SplitMethod,
		Participants: toParticipantInputs(req.Participants),
	})
	if err != nil {
		h.writeSharingError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toSharedExpenseResponse(expense))
}

func (h *Handlers) GetSharedExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	expense, err := h.Sharing.GetExpense(r.Context(), user.ID, user.Email, chi.URLParam(r, "id"))
	if err != nil {
		h.writeSharingError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toSharedExpenseResponse(expense))
}

func (h *Handlers) UpdateSharedExpense(w http.ResponseWriter, r *http.Request) {
	var req sharedExpenseRequest
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

	expense, err := h.Sharing.UpdateExpense(r.Context(), user.ID, sharingdomain.UpdateExpenseInput{
		ID:           chi.URLParam(r, "id"),
		Title:        req.Title,
		Description:  req.Description,
		Amount:       req.Amount,
		Category:     req.Category,
		Date:         date,
		Method:       req.SplitMethod,
		GroupID:      req.GroupID,
		Participants: toParticipantInputs(req.Participants),
	})
	if err != nil {
		h.writeSharingError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toSharedExpenseResponse(expense))
}

func (h *Handlers) DeleteSharedExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Sharing.DeleteExpense(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.writeSharingError(w, err, user.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SettleParticipant(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	expenseID := chi.URLParam(r, "id")
	participantID := chi.URLParam(r, "participant_id")

	// Omitted amount means the participant paid their full share.
	var amountPaid float64
	if req.AmountPaid != nil {
		amountPaid = *req.AmountPaid
	} else {
		expense, err := h.Sharing.GetExpense(r.Context(), user.ID, user.Email, expenseID)
		if err != nil {
			h.writeSharingError(w, err, user.ID)
			return
		}
		found := false
		for _, p := range expense.Participants {
			if p.ID == participantID {
				amountPaid = p.AmountOwed
				found = true
				break
			}
		}
		if !found {
			writeError(w, http.StatusNotFound, "participant_not_found", "participant not found")
			return
		}
	}

	participant, err := h.Sharing.SettleParticipant(r.Context(), user.ID, expenseID, participantID, amountPaid)
	if err != nil {
		h.writeSharingError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toParticipantResponse(*participant))
}

func (h *Handlers) GetBalances(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	balances, err := h.Sharing.ComputeBalances(r.Context(), user.ID, user.Email)
	if err != nil {
		h.log.InternalError("sharing.balances failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, balances)
}

func (h *Handlers) writeSharingError(w http.ResponseWriter, err error, userID string) {
	switch {
	case errors.Is(err, sharingdomain.ErrExpenseNotFound):
		writeError(w, http.StatusNotFound, "expense_not_found", "shared expense not found")
	case errors.Is(err, sharingdomain.ErrParticipantNotFound):
		writeError(w, http.StatusNotFound, "participant_not_found", "participant not found")
	case errors.Is(err, sharingdomain.ErrNotCreator):
		writeError(w, http.StatusForbidden, "not_creator", "only the expense creator may do this")
	case errors.Is(err, sharingdomain.ErrNotParticipant):
		writeError(w, http.StatusForbidden, "not_participant", "not a participant of this expense")
	case errors.Is(err, sharingdomain.ErrAlreadySettled):
		writeError(w, http.StatusConflict, "already_settled", "participant is already settled")
	case errors.Is(err, sharingdomain.ErrInvalidAmount),
		errors.Is(err, sharingdomain.ErrTitleRequired),
		errors.Is(err, sharingdomain.ErrEmailRequired),
		errors.Is(err, split.ErrNoParticipants),
		errors.Is(err, split.ErrInvalidTotal),
		errors.Is(err, split.ErrUnknownMethod),
		errors.Is(err, split.ErrImbalancedPercentages),
		errors.Is(err, split.ErrImbalancedAmounts),
		errors.Is(err, split.ErrInvalidShares):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError("sharing: request failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
