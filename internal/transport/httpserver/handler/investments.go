package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	investmentsdomain "splitledger-go/internal/domain/investments"
	"splitledger-go/internal/quotes"
	"splitledger-go/internal/transport/httpserver/middleware"
)

type createHoldingRequest struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
}

type updateHoldingRequest struct {
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
}

func (h *Handlers) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	summary, err := h.Investments.Portfolio(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("investments.portfolio failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) CreateHolding(w http.ResponseWriter, r *http.Request) {
	var req createHoldingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	holding, err := h.Investments.Create(r.Context(), investmentsdomain.CreateInput{
		UserID:        user.ID,
		Symbol:        req.Symbol,
		Name:          req.Name,
		Shares:        req.Shares,
		PurchasePrice: req.PurchasePrice,
	})
	if err != nil {
		h.writeInvestmentError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, holding)
}

func (h *Handlers) GetHolding(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	holding, err := h.Investments.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeInvestmentError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, holding)
}

func (h *Handlers) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	var req updateHoldingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	holding, err := h.Investments.Update(r.Context(), investmentsdomain.UpdateInput{
		ID:            chi.URLParam(r, "id"),
		UserID:        user.ID,
		Shares:        req.Shares,
		PurchasePrice: req.PurchasePrice,
	})
	if err != nil {
		h.writeInvestmentError(w, err, user.ID)
		return
	}

	writeJSON(w, http.StatusOK, holding)
}

func (h *Handlers) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Investments.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.writeInvestmentError(w, err, user.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RefreshPrices walks the caller's holdings one quote at a time, so with
// many symbols this request is slow on purpose.
func (h *Handlers) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	report, err := h.Investments.RefreshPrices(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("investments.refresh failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) SearchSymbols(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	matches, err := h.Quotes.SearchSymbols(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, quotes.ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "quote provider rate limit reached")
			return
		}
		h.log.InternalError("investments.search failed", err)
		writeError(w, http.StatusBadGateway, "provider_error", "quote provider unavailable")
		return
	}

	writeJSON(w, http.StatusOK, matches)
}

func (h *Handlers) writeInvestmentError(w http.ResponseWriter, err error, userID string) {
	switch {
	case errors.Is(err, investmentsdomain.ErrHoldingNotFound):
		writeError(w, http.StatusNotFound, "holding_not_found", "holding not found")
	case errors.Is(err, investmentsdomain.ErrInvalidSymbol),
		errors.Is(err, investmentsdomain.ErrInvalidShares),
		errors.Is(err, investmentsdomain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, quotes.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate_limited", "quote provider rate limit reached")
	default:
		h.log.InternalError("investments: request failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
