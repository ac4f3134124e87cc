package sharing

import "time"

// SharedExpense is a bill divided among participants. Total and split method
// are fixed after creation; editing replaces the participant set wholesale.
type SharedExpense struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	CreatorID    string    `gorm:"type:uuid;index;not null"`
	CreatorEmail string    `gorm:"index;not null"`
	GroupID      *string   `gorm:"type:uuid;index"`
	Title        string    `gorm:"not null"`
	Description  string    `gorm:"type:text"`
	Amount       float64   `gorm:"type:numeric(12,2);not null"`
	Category     string    `gorm:"size:64"`
	Date         time.Time `gorm:"type:date;not null"`
	SplitMethod  string    `gorm:"size:16;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Participant is one person's assigned share of a shared expense.
// Participants have no life of their own: they are created with the expense
// and replaced as a batch when the expense is edited.
type Participant struct {
	ID         string   `gorm:"type:uuid;primaryKey"`
	ExpenseID  string   `gorm:"type:uuid;index;not null"`
	Email      string   `gorm:"index;not null"`
	Name       string   `gorm:"not null"`
	AmountOwed float64  `gorm:"type:numeric(12,2);not null"`
	AmountPaid float64  `gorm:"type:numeric(12,2);not null;default:0"`
	Percentage *float64 `gorm:"type:numeric(5,2)"`
	Shares     *int
	IsSettled  bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

type ExpenseWithParticipants struct {
	SharedExpense
	Participants []Participant
}

// Settled reports whether every participant has paid up. It is derived,
// never stored.
func (e ExpenseWithParticipants) Settled() bool {
	if len(e.Participants) == 0 {
		return false
	}
	for _, p := range e.Participants {
		if !p.IsSettled {
			return false
		}
	}
	return true
}

// ParticipantInput is the caller-supplied description of one participant.
// Percentage, Shares and Amount are consulted only for the matching method.
type ParticipantInput struct {
	Email      string
	Name       string
	Percentage *float64
	Shares     *int
	Amount     *float64
}

type CreateExpenseInput struct {
	CreatorID    string
	CreatorEmail string
	CreatorName  string
	GroupID      *string
	Title        string
	Description  string
	Amount       float64
	Category     string
	Date         time.Time
	Method       string
	Participants []ParticipantInput
}

type UpdateExpenseInput struct {
	ID           string
	Title        string
	Description  string
	Amount       float64
	Category     string
	Date         time.Time
	Method       string
	GroupID      *string
	Participants []ParticipantInput
}

// BalanceRow is the flattened join of a participant record with its parent
// expense, which is all the balance aggregation needs.
type BalanceRow struct {
	ExpenseID        string
	CreatorID        string
	CreatorEmail     string
	ParticipantEmail string
	ParticipantName  string
	AmountOwed       float64
	AmountPaid       float64
	IsSettled        bool
}

// Balance is the net position against one counterparty. Positive means the
// counterparty owes the current user.
type Balance struct {
	Counterparty string  `json:"counterparty"`
	Name         string  `json:"name"`
	Net          float64 `json:"net"`
}
