package sharing

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateExpense(ctx context.Context, expense *SharedExpense) error
	GetExpenseByID(ctx context.Context, expenseID string) (*SharedExpense, error)
	UpdateExpense(ctx context.Context, expense *SharedExpense) error
	DeleteExpense(ctx context.Context, expenseID string) (bool, error)
	// ListExpensesForUser returns expenses where the user is the creator or
	// appears as a participant identity.
	ListExpensesForUser(ctx context.Context, userID, email string) ([]SharedExpense, error)
	CreateParticipants(ctx context.Context, participants []Participant) error
	DeleteParticipantsByExpense(ctx context.Context, expenseID string) error
	GetParticipantsByExpense(ctx context.Context, expenseID string) ([]Participant, error)
	GetParticipantsByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]Participant, error)
	GetParticipantByID(ctx context.Context, expenseID, participantID string) (*Participant, error)
	UpdateParticipant(ctx context.Context, participant *Participant) error
	// ListBalanceRows returns participant rows joined with their expense for
	// every expense where the user is the creator or a participant identity.
	ListBalanceRows(ctx context.Context, userID, email string) ([]BalanceRow, error)
}

// GroupDirectory is the slice of the groups domain the sharing service
// needs: membership checks for viewing group expenses and best-effort
// auto-enrollment of new participants.
type GroupDirectory interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	AddMembersByEmail(ctx context.Context, groupID string, emails []string) error
}

// IdentityResolver looks up a display name for an identity. Resolution
// failures degrade to the identity string, never to an error.
type IdentityResolver interface {
	DisplayName(ctx context.Context, email string) (string, error)
}
