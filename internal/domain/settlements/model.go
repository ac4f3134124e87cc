package settlements

import "time"

// Status is the settlement lifecycle state. Pending is the only state with
// outgoing transitions; completed and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Settlement is a recorded real-world payment between two people. It stands
// on its own: the optional expense reference is informational, not a strong
// foreign key.
type Settlement struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	PayerEmail  string     `gorm:"index;not null"`
	PayerName   string     `gorm:"not null"`
	PayeeEmail  string     `gorm:"index;not null"`
	PayeeName   string     `gorm:"not null"`
	Amount      float64    `gorm:"type:numeric(12,2);not null"`
	Status      Status     `gorm:"size:16;not null;default:pending"`
	Description string     `gorm:"type:text"`
	ExpenseID   *string    `gorm:"type:uuid"`
	CreatedBy   string     `gorm:"type:uuid;not null"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	SettledAt   *time.Time
}

// Terminal reports whether the settlement can no longer transition.
func (s *Settlement) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusCancelled
}

type CreateInput struct {
	CreatedBy   string
	PayerEmail  string
	PayerName   string
	PayeeEmail  string
	PayeeName   string
	Amount      float64
	Description string
	ExpenseID   *string
}
