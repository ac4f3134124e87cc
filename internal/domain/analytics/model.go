package analytics

import "time"

type SummaryFilter struct {
	From     time.Time
	To       time.Time
	Category string
}

type SummaryResult struct {
	TotalAmount float64 `json:"total_amount"`
	Count       int64   `json:"count"`
	AvgPerDay   float64 `json:"avg_per_day"`
}

type ByCategoryFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

type ByCategoryRow struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

type MonthlyFilter struct {
	From time.Time
	To   time.Time
}

type MonthlyRow struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type ForecastResult struct {
	Month     string  `json:"month"`
	Projected float64 `json:"projected"`
	// Months is how many historical months the projection was fitted on.
	Months int `json:"months"`
}
