package investments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"splitledger-go/pkg/logger"
)

type Service struct {
	repo   Repository
	quotes QuoteProvider
	log    logger.Logger

	// refreshDelay paces quote requests to stay inside the provider's
	// free-tier rate limit.
	refreshDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
	now          func() time.Time
}

func NewService(repo Repository, quotes QuoteProvider, refreshDelay time.Duration, log logger.Logger) *Service {
	return &Service{
		repo:         repo,
		quotes:       quotes,
		log:          log,
		refreshDelay: refreshDelay,
		sleep:        sleepContext,
		now:          time.Now,
	}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Holding, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if input.Shares <= 0 {
		return nil, ErrInvalidShares
	}
	if input.PurchasePrice <= 0 {
		return nil, ErrInvalidPrice
	}

	ok, err := s.quotes.ValidateSymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidSymbol
	}

	holding := Holding{
		ID:            uuid.NewString(),
		UserID:        input.UserID,
		Symbol:        symbol,
		Name:          strings.TrimSpace(input.Name),
		Shares:        input.Shares,
		PurchasePrice: input.PurchasePrice,
		CurrentPrice:  input.PurchasePrice,
	}
	if err := s.repo.Create(ctx, &holding); err != nil {
		return nil, err
	}
	return &holding, nil
}

func (s *Service) Get(ctx context.Context, userID, holdingID string) (*HoldingWithValuation, error) {
	holding, err := s.repo.GetByID(ctx, userID, holdingID)
	if err != nil {
		return nil, err
	}
	return &HoldingWithValuation{Holding: *holding, Valuation: valuate(*holding)}, nil
}

func (s *Service) Portfolio(ctx context.Context, userID string) (*PortfolioSummary, error) {
	holdings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := PortfolioSummary{Holdings: make([]HoldingWithValuation, 0, len(holdings))}
	totalValue := decimal.Zero
	totalCost := decimal.Zero
	for _, holding := range holdings {
		valuation := valuate(holding)
		summary.Holdings = append(summary.Holdings, HoldingWithValuation{Holding: holding, Valuation: valuation})
		totalValue = totalValue.Add(valuation.MarketValue)
		totalCost = totalCost.Add(valuation.CostBasis)

		if holding.PriceUpdatedAt != nil {
			if summary.Refreshed == nil || holding.PriceUpdatedAt.After(*summary.Refreshed) {
				summary.Refreshed = holding.PriceUpdatedAt
			}
		}
	}

	summary.Totals = buildValuation(totalValue, totalCost)
	return &summary, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Holding, error) {
	if input.Shares <= 0 {
		return nil, ErrInvalidShares
	}
	if input.PurchasePrice <= 0 {
		return nil, ErrInvalidPrice
	}

	holding, err := s.repo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	holding.Shares = input.Shares
	holding.PurchasePrice = input.PurchasePrice
	holding.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, holding); err != nil {
		return nil, err
	}
	return holding, nil
}

func (s *Service) Delete(ctx context.Context, userID, holdingID string) error {
	deleted, err := s.repo.Delete(ctx, userID, holdingID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrHoldingNotFound
	}
	return nil
}

// RefreshPrices re-quotes every holding strictly one at a time, sleeping
// between requests. A failed quote leaves that holding's stored price
// untouched and the pass moves on.
func (s *Service) RefreshPrices(ctx context.Context, userID string) (*RefreshReport, error) {
	holdings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := RefreshReport{}
	for i, holding := range holdings {
		if i > 0 {
			if err := s.sleep(ctx, s.refreshDelay); err != nil {
				return &report, err
			}
		}

		price, err := s.quotes.GetQuote(ctx, holding.Symbol)
		if err != nil {
			s.log.Warn("investments: quote failed, keeping stored price",
				"symbol", holding.Symbol, "err", err)
			report.Failed++
			continue
		}

		refreshedAt := s.now().UTC()
		holding.CurrentPrice = price
		holding.PriceUpdatedAt = &refreshedAt
		if err := s.repo.Update(ctx, &holding); err != nil {
			return &report, err
		}
		report.Updated++
	}

	return &report, nil
}

func valuate(holding Holding) Valuation {
	shares := decimal.NewFromFloat(holding.Shares)
	value := shares.Mul(decimal.NewFromFloat(holding.CurrentPrice))
	cost := shares.Mul(decimal.NewFromFloat(holding.PurchasePrice))
	return buildValuation(value, cost)
}

func buildValuation(value, cost decimal.Decimal) Valuation {
	gain := value.Sub(cost)
	percent := decimal.Zero
	if !cost.IsZero() {
		percent = gain.Div(cost).Mul(decimal.NewFromInt(100)).Round(4)
	}
	return Valuation{
		MarketValue:     value.Round(2),
		CostBasis:       cost.Round(2),
		GainLoss:        gain.Round(2),
		GainLossPercent: percent,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
