package handler

import (
	"errors"
	"net/http"

	analyticsdomain "splitledger-go/internal/domain/analytics"
	"splitledger-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	from, err := parseDateRequired(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateRequired(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}

	result, err := h.Analytics.Summary(r.Context(), user.ID, analyticsdomain.SummaryFilter{
		From:     from,
		To:       to,
		Category: query.Get("category"),
	})
	if err != nil {
		h.log.InternalError("analytics.summary failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) AnalyticsByCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	from, err := parseDateRequired(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateRequired(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	rows, err := h.Analytics.ByCategory(r.Context(), user.ID, analyticsdomain.ByCategoryFilter{
		From:  from,
		To:    to,
		Limit: limit,
	})
	if err != nil {
		h.log.InternalError("analytics.by_category failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) AnalyticsMonthly(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	from, err := parseDateRequired(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateRequired(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}

	rows, err := h.Analytics.Monthly(r.Context(), user.ID, analyticsdomain.MonthlyFilter{From: from, To: to})
	if err != nil {
		h.log.InternalError("analytics.monthly failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) AnalyticsForecast(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Analytics.Forecast(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, analyticsdomain.ErrNotEnoughData) {
			writeError(w, http.StatusUnprocessableEntity, "not_enough_data", "need at least two months of expenses")
			return
		}
		h.log.InternalError("analytics.forecast failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
