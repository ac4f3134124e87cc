package sharing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"splitledger-go/internal/notify"
	"splitledger-go/internal/split"
	"splitledger-go/pkg/logger"
)

type Service struct {
	repo       Repository
	groups     GroupDirectory
	identities IdentityResolver
	notifier   notify.Notifier
	log        logger.Logger
}

func NewService(repo Repository, groups GroupDirectory, identities IdentityResolver, notifier notify.Notifier, log logger.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		repo:       repo,
		groups:     groups,
		identities: identities,
		notifier:   notifier,
		log:        log,
	}
}

func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*ExpenseWithParticipants, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	method, err := split.ParseMethod(input.Method)
	if err != nil {
		return nil, err
	}

	participants, err := buildParticipants(input.Amount, method, input.Participants)
	if err != nil {
		return nil, err
	}

	expense := SharedExpense{
		ID:           uuid.NewString(),
		CreatorID:    input.CreatorID,
		CreatorEmail: strings.ToLower(strings.TrimSpace(input.CreatorEmail)),
		GroupID:      input.GroupID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Amount:       input.Amount,
		Category:     strings.TrimSpace(input.Category),
		Date:         input.Date,
		SplitMethod:  string(method),
	}
	for i := range participants {
		participants[i].ExpenseID = expense.ID
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateExpense(ctx, &expense); err != nil {
			return err
		}
		return tx.CreateParticipants(ctx, participants)
	})
	if err != nil {
		return nil, err
	}

	s.autoAddParticipantsToGroup(ctx, expense.GroupID, participants)
	s.notifyAssigned(ctx, &expense, participants, input.CreatorName)

	return &ExpenseWithParticipants{SharedExpense: expense, Participants: participants}, nil
}

func (s *Service) GetExpense(ctx context.Context, userID, email, expenseID string) (*ExpenseWithParticipants, error) {
	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.GetParticipantsByExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canView(ctx, userID, email, expense, participants)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotParticipant
	}

	return &ExpenseWithParticipants{SharedExpense: *expense, Participants: participants}, nil
}

func (s *Service) ListExpenses(ctx context.Context, userID, email string) ([]ExpenseWithParticipants, error) {
	expenses, err := s.repo.ListExpensesForUser(ctx, userID, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return []ExpenseWithParticipants{}, nil
	}

	ids := make([]string, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.ID)
	}

	byExpense, err := s.repo.GetParticipantsByExpenseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]ExpenseWithParticipants, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, ExpenseWithParticipants{
			SharedExpense: e,
			Participants:  byExpense[e.ID],
		})
	}
	return items, nil
}

// UpdateExpense replaces the expense fields and its participant set
// wholesale: existing participants are deleted and recomputed shares are
// inserted inside one transaction.
func (s *Service) UpdateExpense(ctx context.Context, userID string, input UpdateExpenseInput) (*ExpenseWithParticipants, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	method, err := split.ParseMethod(input.Method)
	if err != nil {
		return nil, err
	}

	participants, err := buildParticipants(input.Amount, method, input.Participants)
	if err != nil {
		return nil, err
	}

	var updated SharedExpense
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		expense, err := tx.GetExpenseByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if !isCreator(expense, userID) {
			return ErrNotCreator
		}

		expense.Title = strings.TrimSpace(input.Title)
		expense.Description = strings.TrimSpace(input.Description)
		expense.Amount = input.Amount
		expense.Category = strings.TrimSpace(input.Category)
		expense.Date = input.Date
		expense.SplitMethod = string(method)
		expense.GroupID = input.GroupID
		expense.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateExpense(ctx, expense); err != nil {
			return err
		}

		if err := tx.DeleteParticipantsByExpense(ctx, expense.ID); err != nil {
			return err
		}
		for i := range participants {
			participants[i].ExpenseID = expense.ID
		}
		if err := tx.CreateParticipants(ctx, participants); err != nil {
			return err
		}

		updated = *expense
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.autoAddParticipantsToGroup(ctx, updated.GroupID, participants)

	return &ExpenseWithParticipants{SharedExpense: updated, Participants: participants}, nil
}

func (s *Service) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if !isCreator(expense, userID) {
		return ErrNotCreator
	}

	deleted, err := s.repo.DeleteExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}
	return nil
}

// SettleParticipant confirms a real-world payment: it records the paid
// amount and flips the participant to settled. The transition is one-way.
// Only the expense creator may confirm.
func (s *Service) SettleParticipant(ctx context.Context, userID, expenseID, participantID string, amountPaid float64) (*Participant, error) {
	if amountPaid < 0 {
		return nil, ErrInvalidAmount
	}

	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !isCreator(expense, userID) {
		return nil, ErrNotCreator
	}

	participant, err := s.repo.GetParticipantByID(ctx, expenseID, participantID)
	if err != nil {
		return nil, err
	}
	if participant.IsSettled {
		return nil, ErrAlreadySettled
	}

	participant.AmountPaid = amountPaid
	participant.IsSettled = true
	participant.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateParticipant(ctx, participant); err != nil {
		return nil, err
	}

	creatorName, _ := s.resolveName(ctx, expense.CreatorEmail)
	outcome := s.notifier.Send(ctx, notify.Message{
		Kind:           notify.KindSettlementConfirmed,
		RecipientEmail: participant.Email,
		RecipientName:  participant.Name,
		SenderName:     creatorName,
		ExpenseTitle:   expense.Title,
		Amount:         amountPaid,
	})
	s.logOutcome(outcome, "sharing: settlement confirmation", participant.Email)

	return participant, nil
}

// buildParticipants validates the distribution and projects per-person owed
// amounts. Validation happens here, before anything is persisted; the
// calculator itself stays a pure projection.
func buildParticipants(total float64, method split.Method, inputs []ParticipantInput) ([]Participant, error) {
	splitInputs := make([]split.Input, 0, len(inputs))
	for _, in := range inputs {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if email == "" {
			return nil, ErrEmailRequired
		}
		si := split.Input{Identity: email}
		if in.Percentage != nil {
			si.Percentage = *in.Percentage
		}
		if in.Shares != nil {
			si.Shares = *in.Shares
		}
		if in.Amount != nil {
			si.Amount = *in.Amount
		}
		splitInputs = append(splitInputs, si)
	}

	if err := split.Validate(total, method, splitInputs); err != nil {
		return nil, err
	}

	shares, err := split.ComputeShares(total, method, splitInputs)
	if err != nil {
		return nil, err
	}

	participants := make([]Participant, len(shares))
	for i, share := range shares {
		participants[i] = Participant{
			ID:         uuid.NewString(),
			Email:      share.Identity,
			Name:       strings.TrimSpace(inputs[i].Name),
			AmountOwed: share.AmountOwed,
			Percentage: inputs[i].Percentage,
			Shares:     inputs[i].Shares,
		}
	}
	return participants, nil
}

func (s *Service) autoAddParticipantsToGroup(ctx context.Context, groupID *string, participants []Participant) {
	if groupID == nil || s.groups == nil {
		return
	}

	emails := make([]string, 0, len(participants))
	for _, p := range participants {
		emails = append(emails, p.Email)
	}

	if err := s.groups.AddMembersByEmail(ctx, *groupID, emails); err != nil {
		s.log.BusinessError("sharing: auto-add participants to group failed", err, "group_id", *groupID)
	}
}

func (s *Service) notifyAssigned(ctx context.Context, expense *SharedExpense, participants []Participant, creatorName string) {
	if creatorName == "" {
		creatorName = expense.CreatorEmail
	}
	for _, p := range participants {
		if p.Email == expense.CreatorEmail {
			continue
		}
		outcome := s.notifier.Send(ctx, notify.Message{
			Kind:           notify.KindExpenseAssigned,
			RecipientEmail: p.Email,
			RecipientName:  p.Name,
			SenderName:     creatorName,
			ExpenseTitle:   expense.Title,
			Amount:         p.AmountOwed,
		})
		s.logOutcome(outcome, "sharing: expense assignment", p.Email)
	}
}

func (s *Service) logOutcome(outcome notify.Outcome, what, recipient string) {
	switch outcome.Status {
	case notify.StatusFailed:
		s.log.BusinessError(what+" notification failed", outcome.Err, "recipient", recipient)
	case notify.StatusDelivered:
		s.log.Debug(what+" notification delivered", "recipient", recipient)
	}
}

func (s *Service) resolveName(ctx context.Context, email string) (string, error) {
	if s.identities == nil {
		return email, nil
	}
	name, err := s.identities.DisplayName(ctx, email)
	if err != nil || name == "" {
		return email, err
	}
	return name, nil
}
