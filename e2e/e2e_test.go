//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"splitledger-go/internal/auth"
	"splitledger-go/internal/config"
	"splitledger-go/internal/db"
	analyticsdomain "splitledger-go/internal/domain/analytics"
	expensesdomain "splitledger-go/internal/domain/expenses"
	groupsdomain "splitledger-go/internal/domain/groups"
	investmentsdomain "splitledger-go/internal/domain/investments"
	settlementsdomain "splitledger-go/internal/domain/settlements"
	sharingdomain "splitledger-go/internal/domain/sharing"
	usersdomain "splitledger-go/internal/domain/users"
	"splitledger-go/internal/notify"
	"splitledger-go/internal/quotes"
	analyticsrepo "splitledger-go/internal/repository/postgres/analytics"
	expensesrepo "splitledger-go/internal/repository/postgres/expenses"
	groupsrepo "splitledger-go/internal/repository/postgres/groups"
	investmentsrepo "splitledger-go/internal/repository/postgres/investments"
	settlementsrepo "splitledger-go/internal/repository/postgres/settlements"
	sharingrepo "splitledger-go/internal/repository/postgres/sharing"
	usersrepo "splitledger-go/internal/repository/postgres/users"
	"splitledger-go/internal/transport/httpserver"
	"splitledger-go/internal/transport/httpserver/handler"
	"splitledger-go/pkg/logger"
)

type testEnv struct {
	server      *httptest.Server
	quoteServer *httptest.Server
	db          *gorm.DB
}

// quoteProvider adapts the quotes client to the investments service, same
// as the composition root does.
type quoteProvider struct {
	client *quotes.Client
}

func (p quoteProvider) GetQuote(ctx context.Context, symbol string) (float64, error) {
	quote, err := p.client.GetQuote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return quote.Price, nil
}

func (p quoteProvider) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	return p.client.ValidateSymbol(ctx, symbol)
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.New(io.Discard, slog.LevelError, "json")

	cfg := config.Config{
		CORSOrigins: []string{"http://localhost:5173"},
		DB:          config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			JWTSecret: "e2e-secret",
			TokenTTL:  time.Hour,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	quoteServer := newQuoteServer(t)
	quoteClient := quotes.NewClient(quoteServer.URL, "test-key", 2*time.Second)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher()

	usersService := usersdomain.NewService(usersrepo.NewPostgres(dbConn), hasher, tokens, log)
	groupsService := groupsdomain.NewService(groupsrepo.NewPostgres(dbConn), usersService, log)
	expensesService := expensesdomain.NewService(expensesrepo.NewPostgres(dbConn))
	analyticsService := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn))
	sharingService := sharingdomain.NewService(sharingrepo.NewPostgres(dbConn), groupsService, usersService, notify.Nop{}, log)
	settlementsService := settlementsdomain.NewService(settlementsrepo.NewPostgres(dbConn), notify.Nop{}, log)
	investmentsService := investmentsdomain.NewService(investmentsrepo.NewPostgres(dbConn),
		quoteProvider{client: quoteClient}, time.Millisecond, log)

	handlers := handler.New(usersService, groupsService, expensesService, analyticsService,
		sharingService, settlementsService, investmentsService, quoteClient, log)

	router := httpserver.NewRouter(cfg, handlers, tokens)
	server := httptest.NewServer(router)

	return &testEnv{server: server, quoteServer: quoteServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.quoteServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

// newQuoteServer fakes the quote provider so refresh and search flows do not
// need network access or an API key.
func newQuoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			symbol = r.URL.Query().Get("keywords")
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("function") {
		case "GLOBAL_QUOTE":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"Global Quote": map[string]string{
					"01. symbol":             symbol,
					"05. price":              "123.4500",
					"07. latest trading day": "2026-02-05",
					"09. change":             "1.2300",
					"10. change percent":     "1.0100%",
				},
			})
		case "SYMBOL_SEARCH":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"bestMatches": []map[string]string{
					{
						"1. symbol":   strings.ToUpper(symbol),
						"2. name":     "Test Corp",
						"3. type":     "Equity",
						"4. region":   "United States",
						"8. currency": "USD",
					},
				},
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE participants, shared_expenses, settlements, holdings, expenses, group_members, groups, users RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type groupResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	OwnerID string `json:"owner_id"`
}

type groupMemberResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type expenseResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

type expenseListResponse struct {
	Items []expenseResponse `json:"items"`
	Total int64             `json:"total"`
}

type summaryResponse struct {
	TotalAmount float64 `json:"total_amount"`
	Count       int64   `json:"count"`
	AvgPerDay   float64 `json:"avg_per_day"`
}

type participantResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	AmountOwed float64 `json:"amount_owed"`
	AmountPaid float64 `json:"amount_paid"`
	IsSettled  bool    `json:"is_settled"`
}

type sharedExpenseResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Amount       float64               `json:"amount"`
	SplitMethod  string                `json:"split_method"`
	Settled      bool                  `json:"settled"`
	Participants []participantResponse `json:"participants"`
}

type settlementResponse struct {
	ID         string     `json:"id"`
	PayerEmail string     `json:"payer_email"`
	PayeeEmail string     `json:"payee_email"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status"`
	SettledAt  *time.Time `json:"settled_at"`
}

type holdingResponse struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
	CurrentPrice  float64 `json:"current_price"`
}

type refreshResponse struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

func registerUser(t *testing.T, client *http.Client, baseURL, email, name string) sessionResponse {
	t.Helper()

	resp, body := requestJSON(t, client, http.MethodPost, baseURL+"/api/auth/register", "", map[string]string{
		"email":    email,
		"name":     name,
		"password": "correct-horse",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, resp.StatusCode, string(body))
	}
	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token == "" || session.User.ID == "" {
		t.Fatalf("expected token and user id, got %s", string(body))
	}
	return session
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", errResp.Error.Code)
	}

	session := registerUser(t, client, env.server.URL, "Alice@Example.com", "Alice")
	if session.User.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", session.User.Email)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", session.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var me userResponse
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.ID != session.User.ID {
		t.Fatalf("expected id %s, got %q", session.User.ID, me.ID)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice Again",
		"password": "correct-horse",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EGroupFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	owner := registerUser(t, client, env.server.URL, "owner@example.com", "Owner")
	member := registerUser(t, client, env.server.URL, "member@example.com", "Member")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/groups", owner.Token, map[string]string{
		"name": "Trip to Riga",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var group groupResponse
	if err := json.Unmarshal(body, &group); err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if len(group.Code) != 6 {
		t.Fatalf("expected 6-char code, got %q", group.Code)
	}

	resp, body = requestJSON(t, client, http.MethodPatch, env.server.URL+"/api/groups/"+group.ID, owner.Token, map[string]string{
		"name": "Trip to Riga 2026",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/groups/join", member.Token, map[string]string{
		"code": group.Code,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/groups/join", member.Token, map[string]string{
		"code": group.Code,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/groups/"+group.ID+"/members", owner.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var members []groupMemberResponse
	if err := json.Unmarshal(body, &members); err != nil {
		t.Fatalf("decode members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/groups/"+group.ID+"/members/"+owner.User.ID, member.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/groups/"+group.ID+"/members/"+owner.User.ID, owner.Token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/groups/"+group.ID+"/leave", owner.Token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 owner_must_transfer, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/groups/"+group.ID+"/members/"+member.User.ID, owner.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/groups/"+group.ID+"/members/"+member.User.ID, owner.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/groups/"+group.ID+"/leave", owner.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	// Membership is checked before existence, so the dissolved group reads
	// as a permission problem rather than a missing row.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/groups/"+group.ID, owner.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EExpensesAndAnalyticsFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	user := registerUser(t, client, env.server.URL, "carol@example.com", "Carol")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/expenses", user.Token, map[string]interface{}{
		"title":    "Coffee",
		"amount":   12.5,
		"category": "Food",
		"date":     "2026-02-05",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var expense expenseResponse
	if err := json.Unmarshal(body, &expense); err != nil {
		t.Fatalf("decode expense: %v", err)
	}
	if expense.Category != "food" {
		t.Fatalf("expected normalized category food, got %q", expense.Category)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/expenses", user.Token, map[string]interface{}{
		"title":  "Bus ticket",
		"amount": 2.0,
		"date":   "2026-02-07",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/expenses?category=food", user.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var list expenseListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected total 1, got %d", list.Total)
	}

	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/expenses/"+expense.ID, user.Token, map[string]interface{}{
		"title":    "Coffee and cake",
		"amount":   18.0,
		"category": "food",
		"date":     "2026-02-05",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet,
		env.server.URL+"/api/analytics/summary?from=2026-02-01&to=2026-02-28", user.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var summary summaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Count != 2 {
		t.Fatalf("expected count 2, got %d", summary.Count)
	}
	if summary.TotalAmount != 20.0 {
		t.Fatalf("expected total 20, got %v", summary.TotalAmount)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/expenses/"+expense.ID, user.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/expenses/"+expense.ID, user.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2ESharedExpensesFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	dave := registerUser(t, client, env.server.URL, "dave@example.com", "Dave")
	erin := registerUser(t, client, env.server.URL, "erin@example.com", "Erin")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/shared-expenses", dave.Token, map[string]interface{}{
		"title":        "Dinner",
		"amount":       50.0,
		"date":         "2026-02-10",
		"split_method": "equal",
		"participants": []map[string]interface{}{
			{"email": "dave@example.com", "name": "Dave"},
			{"email": "erin@example.com", "name": "Erin"},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var expense sharedExpenseResponse
	if err := json.Unmarshal(body, &expense); err != nil {
		t.Fatalf("decode shared expense: %v", err)
	}
	if len(expense.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(expense.Participants))
	}
	for _, p := range expense.Participants {
		if p.AmountOwed != 25.0 {
			t.Fatalf("expected equal share 25, got %v for %s", p.AmountOwed, p.Email)
		}
	}

	// Participants can view, only the creator settles.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/shared-expenses/"+expense.ID, erin.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	var erinShare participantResponse
	for _, p := range expense.Participants {
		if p.Email == "erin@example.com" {
			erinShare = p
		}
	}

	settleURL := env.server.URL + "/api/shared-expenses/" + expense.ID + "/participants/" + erinShare.ID + "/settle"

	resp, body = requestJSON(t, client, http.MethodPost, settleURL, erin.Token, map[string]interface{}{})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, settleURL, dave.Token, map[string]interface{}{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var settled participantResponse
	if err := json.Unmarshal(body, &settled); err != nil {
		t.Fatalf("decode participant: %v", err)
	}
	if !settled.IsSettled || settled.AmountPaid != 25.0 {
		t.Fatalf("expected settled with full share, got %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, settleURL, dave.Token, map[string]interface{}{})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/balances", erin.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/shared-expenses/"+expense.ID, erin.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/shared-expenses/"+expense.ID, dave.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/shared-expenses/"+expense.ID, dave.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2ESettlementsFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	payer := registerUser(t, client, env.server.URL, "payer@example.com", "Payer")
	payee := registerUser(t, client, env.server.URL, "payee@example.com", "Payee")
	outsider := registerUser(t, client, env.server.URL, "outsider@example.com", "Outsider")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/settlements", payee.Token, map[string]interface{}{
		"payer_email": "payer@example.com",
		"payer_name":  "Payer",
		"payee_email": "payee@example.com",
		"payee_name":  "Payee",
		"amount":      25.0,
		"description": "Dinner split",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var settlement settlementResponse
	if err := json.Unmarshal(body, &settlement); err != nil {
		t.Fatalf("decode settlement: %v", err)
	}
	if settlement.Status != "pending" || settlement.SettledAt != nil {
		t.Fatalf("expected pending settlement, got %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/settlements/"+settlement.ID, outsider.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/settlements/"+settlement.ID+"/complete", payer.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &settlement); err != nil {
		t.Fatalf("decode settlement: %v", err)
	}
	if settlement.Status != "completed" || settlement.SettledAt == nil {
		t.Fatalf("expected completed settlement, got %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/settlements/"+settlement.ID+"/cancel", payer.Token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/settlements", payee.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var settlements []settlementResponse
	if err := json.Unmarshal(body, &settlements); err != nil {
		t.Fatalf("decode settlements: %v", err)
	}
	if len(settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(settlements))
	}
}

func TestE2EInvestmentsFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 10 * time.Second}

	user := registerUser(t, client, env.server.URL, "investor@example.com", "Investor")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/investments", user.Token, map[string]interface{}{
		"symbol":         "aapl",
		"name":           "Apple Inc",
		"shares":         2.5,
		"purchase_price": 100.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var holding holdingResponse
	if err := json.Unmarshal(body, &holding); err != nil {
		t.Fatalf("decode holding: %v", err)
	}
	if holding.Symbol != "AAPL" {
		t.Fatalf("expected uppercased symbol, got %q", holding.Symbol)
	}
	if holding.CurrentPrice != 100.0 {
		t.Fatalf("expected current price seeded from purchase, got %v", holding.CurrentPrice)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/investments/refresh", user.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var report refreshResponse
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Updated != 1 || report.Failed != 0 {
		t.Fatalf("expected 1 updated, got %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/investments/"+holding.ID, user.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &holding); err != nil {
		t.Fatalf("decode holding: %v", err)
	}
	if holding.CurrentPrice != 123.45 {
		t.Fatalf("expected refreshed price 123.45, got %v", holding.CurrentPrice)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/investments/search?q=apple", user.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/investments/"+holding.ID, user.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/investments/"+holding.ID, user.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, string(body))
	}
}
