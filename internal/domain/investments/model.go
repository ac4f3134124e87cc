package investments

import (
	"time"

	"github.com/shopspring/decimal"
)

type Holding struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string     `gorm:"type:uuid;index;not null" json:"-"`
	Symbol         string     `gorm:"size:16;not null" json:"symbol"`
	Name           string     `gorm:"not null" json:"name"`
	Shares         float64    `gorm:"type:numeric(18,6);not null" json:"shares"`
	PurchasePrice  float64    `gorm:"type:numeric(18,6);not null" json:"purchase_price"`
	CurrentPrice   float64    `gorm:"type:numeric(18,6);not null" json:"current_price"`
	PriceUpdatedAt *time.Time `json:"price_updated_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Valuation carries money math done in decimal so share quantities times
// prices do not accumulate float drift.
type Valuation struct {
	MarketValue     decimal.Decimal `json:"market_value"`
	CostBasis       decimal.Decimal `json:"cost_basis"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	GainLossPercent decimal.Decimal `json:"gain_loss_percent"`
}

type HoldingWithValuation struct {
	Holding
	Valuation Valuation `json:"valuation"`
}

// PortfolioSummary aggregates valuations across all of a user's holdings.
type PortfolioSummary struct {
	Holdings  []HoldingWithValuation `json:"holdings"`
	Totals    Valuation              `json:"totals"`
	Refreshed *time.Time             `json:"refreshed,omitempty"`
}

type CreateInput struct {
	UserID        string
	Symbol        string
	Name          string
	Shares        float64
	PurchasePrice float64
}

type UpdateInput struct {
	ID            string
	UserID        string
	Shares        float64
	PurchasePrice float64
}

// RefreshReport summarizes one price refresh pass.
type RefreshReport struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
