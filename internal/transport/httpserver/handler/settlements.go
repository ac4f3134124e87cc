package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	settlementsdomain "splitledger-go/internal/domain/settlements"
	"splitledger-go/internal/transport/httpserver/middleware"
)

type createSettlementRequest struct {
	PayerEmail  string  `json:"payer_email"`
	PayerName   string  `json:"payer_name"`
	PayeeEmail  string  `json:"payee_email"`
	PayeeName   string  `json:"payee_name"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ExpenseID   *string `json:"expense_id,omitempty"`
}

type settlementResponse struct {
	ID          string     `json:"id"`
	PayerEmail  string     `json:"payer_email"`
	PayerName   string     `json:"payer_name"`
	PayeeEmail  string     `json:"payee_email"`
	PayeeName   string     `json:"payee_name"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	Description string     `json:"description,omitempty"`
	ExpenseID   *string    `json:"expense_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	SettledAt   *time.Time `json:"settled_at,omitempty"`
}

func toSettlementResponse(s *settlementsdomain.Settlement) settlementResponse {
	return settlementResponse{
		ID:          s.ID,
		PayerEmail:  s.PayerEmail,
		PayerName:   s.PayerName,
		PayeeEmail:  s.PayeeEmail,
		PayeeName:   s.PayeeName,
		Amount:      s.Amount,
		Status:      string(s.Status),
		Description: s.Description,
		ExpenseID:   s.ExpenseID,
		CreatedAt:   s.CreatedAt,
		SettledAt:   s.SettledAt,
	}
}

func (h *Handlers) ListSettlements(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	settlements, err := h.Settlements.List(r.Context(), user.Email)
	if err != nil {
		h.log.InternalError("settlements.list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]settlementResponse, 0, len(settlements))
	for i := range settlements {
		response = append(response, toSettlementResponse(&settlements[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateSettlement(w http.ResponseWriter, r *http.Request) {
	var req createSettlementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	settlement, err := h.Settlements.Create(r.Context(), settlementsdomain.CreateInput{
		CreatedBy:   user.ID,
		PayerEmail:  req.PayerEmail,
		PayerName:   req.PayerName,
		PayeeEmail:  req.PayeeEmail,
		PayeeName:   req.PayeeName,
		Amount:      req.Amount,
		Description: req.Description,
		ExpenseID:   req.ExpenseID,
	})
	if err != nil {
		h.writeSettlementError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

func (h *Handlers) GetSettlement(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	settlement, err := h.Settlements.Get(r.Context(), user.Email, chi.URLParam(r, "id"))
	if err != nil {
		h.writeSettlementError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toSettlementResponse(settlement))
}

func (h *Handlers) CompleteSettlement(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	settlement, err := h.Settlements.Complete(r.Context(), user.Email, chi.URLParam(r, "id"))
	if err != nil {
		h.writeSettlementError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toSettlementResponse(settlement))
}

func (h *Handlers) CancelSettlement(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	settlement, err := h.Settlements.Cancel(r.Context(), user.Email, chi.URLParam(r, "id"))
	if err != nil {
		h.writeSettlementError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toSettlementResponse(settlement))
}

func (h *Handlers) writeSettlementError(w http.ResponseWriter, err error, userID string) {
	switch {
	case errors.Is(err, settlementsdomain.ErrSettlementNotFound):
		writeError(w, http.StatusNotFound, "settlement_not_found", "settlement not found")
	case errors.Is(err, settlementsdomain.ErrNotParty):
		writeError(w, http.StatusForbidden, "not_party", "not a party to this settlement")
	case errors.Is(err, settlementsdomain.ErrTerminalState):
		writeError(w, http.StatusConflict, "terminal_state", "settlement is already completed or cancelled")
	case errors.Is(err, settlementsdomain.ErrInvalidAmount),
		errors.Is(err, settlementsdomain.ErrSamePayerPayee),
		errors.Is(err, settlementsdomain.ErrMissingParty):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError("settlements: request failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
