package analytics

import (
	"context"
	"errors"
	"time"
)

// ErrNotEnoughData means a forecast was requested with fewer than two
// months of history to fit a trend on.
var ErrNotEnoughData = errors.New("not enough history to forecast")

const forecastLookbackMonths = 12

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Summary(ctx context.Context, userID string, filter SummaryFilter) (SummaryResult, error) {
	result, err := s.repo.Summary(ctx, userID, filter)
	if err != nil {
		return SummaryResult{}, err
	}

	days := daysBetweenInclusive(filter.From, filter.To)
	if days > 0 {
		result.AvgPerDay = result.TotalAmount / float64(days)
	}

	return result, nil
}

func (s *Service) ByCategory(ctx context.Context, userID string, filter ByCategoryFilter) ([]ByCategoryRow, error) {
	rows, err := s.repo.ByCategory(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ByCategoryRow{}
	}
	return rows, nil
}

func (s *Service) Monthly(ctx context.Context, userID string, filter MonthlyFilter) ([]MonthlyRow, error) {
	rows, err := s.repo.Monthly(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []MonthlyRow{}
	}
	return rows, nil
}

// Forecast fits a least-squares line through the last year of monthly
// totals and extrapolates one month out. Spending cannot go negative, so
// a falling trend bottoms out at zero.
func (s *Service) Forecast(ctx context.Context, userID string) (ForecastResult, error) {
	current := s.now().UTC()
	monthStart := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := monthStart.AddDate(0, -forecastLookbackMonths, 0)

	rows, err := s.repo.Monthly(ctx, userID, MonthlyFilter{From: from, To: monthStart.AddDate(0, 1, -1)})
	if err != nil {
		return ForecastResult{}, err
	}
	if len(rows) < 2 {
		return ForecastResult{}, ErrNotEnoughData
	}

	projected := linearTrendNext(rows)
	if projected < 0 {
		projected = 0
	}

	return ForecastResult{
		Month:     monthStart.AddDate(0, 1, 0).Format("2006-01"),
		Projected: projected,
		Months:    len(rows),
	}, nil
}

// linearTrendNext fits y = a + b*x over the observed months (x = index)
// and evaluates the line at the month after the last observation.
func linearTrendNext(rows []MonthlyRow) float64 {
	n := float64(len(rows))

	var sumX, sumY, sumXY, sumXX float64
	for i, row := range rows {
		x := float64(i)
		sumX += x
		sumY += row.Total
		sumXY += x * row.Total
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return sumY / n
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	return intercept + slope*n
}

func daysBetweenInclusive(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
