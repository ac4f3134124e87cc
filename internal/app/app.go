package app

import (
	"context"
	"net/http"

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

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher()

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notify.Enabled {
		notifier = notify.NewEmailClient(cfg.Notify.BaseURL, cfg.Notify.APIKey,
			cfg.Notify.SenderName, cfg.Notify.SenderEmail, cfg.Notify.Timeout)
	}

	quoteClient := quotes.NewClient(cfg.Quotes.BaseURL, cfg.Quotes.APIKey, cfg.Quotes.Timeout)

	usersSvc := usersdomain.NewService(usersrepo.NewPostgres(dbConn), hasher, tokens, log)
	groupsSvc := groupsdomain.NewService(groupsrepo.NewPostgres(dbConn), usersSvc, log)
	expensesSvc := expensesdomain.NewService(expensesrepo.NewPostgres(dbConn))
	analyticsSvc := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn))
	sharingSvc := sharingdomain.NewService(sharingrepo.NewPostgres(dbConn), groupsSvc, usersSvc, notifier, log)
	settlementsSvc := settlementsdomain.NewService(settlementsrepo.NewPostgres(dbConn), notifier, log)
	investmentsSvc := investmentsdomain.NewService(investmentsrepo.NewPostgres(dbConn),
		quoteAdapter{client: quoteClient}, cfg.Quotes.RequestDelay, log)

	handlers := handler.New(usersSvc, groupsSvc, expensesSvc, analyticsSvc,
		sharingSvc, settlementsSvc, investmentsSvc, quoteClient, log)

	log.Info("app: initializing http server")
	router := httpserver.NewRouter(cfg, handlers, tokens)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// quoteAdapter narrows the quotes client to the single price the
// investments service cares about.
type quoteAdapter struct {
	client *quotes.Client
}

func (a quoteAdapter) GetQuote(ctx context.Context, symbol string) (float64, error) {
	quote, err := a.client.GetQuote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return quote.Price, nil
}

func (a quoteAdapter) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	return a.client.ValidateSymbol(ctx, symbol)
}
