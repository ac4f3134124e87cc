package expenses

import "time"

type Expense struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	Amount      float64   `gorm:"type:numeric(12,2);not null"`
	Category    string    `gorm:"size:64;not null;default:other"`
	Date        time.Time `gorm:"type:date;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type ListFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
	Limit    int
	Offset   int
}

type CreateInput struct {
	UserID      string
	Title       string
	Description string
	Amount      float64
	Category    string
	Date        time.Time
}

type UpdateInput struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Amount      float64
	Category    string
	Date        time.Time
}
