package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sharingdomain "splitledger-go/internal/domain/sharing"
	"splitledger-go/internal/split"
	"splitledger-go/internal/transport/httpserver/middleware"
	"splitledger-go/pkg/logger"
)

func testHandlers() *Handlers {
	return &Handlers{log: logger.New(io.Discard, slog.LevelError, "json")}
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var envelope errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return envelope.Error
}

func TestWriteSharingErrorStatusCodes(t *testing.T) {
	h := testHandlers()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"title required", sharingdomain.ErrTitleRequired, http.StatusBadRequest, "invalid_request"},
		{"participant email required", sharingdomain.ErrEmailRequired, http.StatusBadRequest, "invalid_request"},
		{"invalid amount", sharingdomain.ErrInvalidAmount, http.StatusBadRequest, "invalid_request"},
		{"imbalanced percentages", split.ErrImbalancedPercentages, http.StatusBadRequest, "invalid_request"},
		{"expense not found", sharingdomain.ErrExpenseNotFound, http.StatusNotFound, "expense_not_found"},
		{"not creator", sharingdomain.ErrNotCreator, http.StatusForbidden, "not_creator"},
		{"already settled", sharingdomain.ErrAlreadySettled, http.StatusConflict, "already_settled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeSharingError(rec, tt.err, "user-1")

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeErrorBody(t, rec)
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			// Validation failures must carry the specific reason, not a
			// generic internal-error message.
			if tt.wantStatus == http.StatusBadRequest && body.Message != tt.err.Error() {
				t.Errorf("message = %q, want %q", body.Message, tt.err.Error())
			}
		})
	}
}

func TestCreateSharedExpenseRequiresDate(t *testing.T) {
	h := testHandlers()

	payload := `{
		"title": "Dinner",
		"amount": 50,
		"split_method": "equal",
		"participants": [
			{"email": "dave@example.com", "name": "Dave"},
			{"email": "erin@example.com", "name": "Erin"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/shared-expenses", strings.NewReader(payload))
	ctx := middleware.WithUser(req.Context(), middleware.User{ID: "user-1", Email: "dave@example.com"})

	rec := httptest.NewRecorder()
	h.CreateSharedExpense(rec, req.WithContext(ctx))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if body := decodeErrorBody(t, rec); body.Code != "invalid_request" {
		t.Errorf("code = %q, want invalid_request", body.Code)
	}
}
