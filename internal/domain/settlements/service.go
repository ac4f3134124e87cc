package settlements

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"splitledger-go/internal/notify"
	"splitledger-go/pkg/logger"
)

type Service struct {
	repo     Repository
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, notifier notify.Notifier, log logger.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Create records a pending settlement. Either party may record it;
// completion requires a separate explicit confirmation.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Settlement, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payer := strings.ToLower(strings.TrimSpace(input.PayerEmail))
	payee := strings.ToLower(strings.TrimSpace(input.PayeeEmail))
	if payer == "" || payee == "" {
		return nil, ErrMissingParty
	}
	if payer == payee {
		return nil, ErrSamePayerPayee
	}

	settlement := Settlement{
		ID:          uuid.NewString(),
		PayerEmail:  payer,
		PayerName:   strings.TrimSpace(input.PayerName),
		PayeeEmail:  payee,
		PayeeName:   strings.TrimSpace(input.PayeeName),
		Amount:      input.Amount,
		Status:      StatusPending,
		Description: strings.TrimSpace(input.Description),
		ExpenseID:   input.ExpenseID,
		CreatedBy:   input.CreatedBy,
	}

	if err := s.repo.Create(ctx, &settlement); err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (s *Service) Get(ctx context.Context, email, settlementID string) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if !isParty(settlement, email) {
		return nil, ErrNotParty
	}
	return settlement, nil
}

func (s *Service) List(ctx context.Context, email string) ([]Settlement, error) {
	return s.repo.ListByIdentity(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// Complete confirms the payment was received. Pending is the only state
// this transition is legal from; completed settlements stay completed.
func (s *Service) Complete(ctx context.Context, email, settlementID string) (*Settlement, error) {
	settlement, err := s.transition(ctx, email, settlementID, StatusCompleted)
	if err != nil {
		return nil, err
	}

	outcome := s.notifier.Send(ctx, notify.Message{
		Kind:           notify.KindSettlementConfirmed,
		RecipientEmail: settlement.PayerEmail,
		RecipientName:  settlement.PayerName,
		SenderName:     settlement.PayeeName,
		ExpenseTitle:   settlement.Description,
		Amount:         settlement.Amount,
	})
	if outcome.Status == notify.StatusFailed {
		s.log.BusinessError("settlements: confirmation notification failed", outcome.Err, "settlement_id", settlement.ID)
	}

	return settlement, nil
}

// Cancel voids a pending settlement. Terminal, like Complete.
func (s *Service) Cancel(ctx context.Context, email, settlementID string) (*Settlement, error) {
	return s.transition(ctx, email, settlementID, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, email string, settlementID string, target Status) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if !isParty(settlement, email) {
		return nil, ErrNotParty
	}
	if settlement.Terminal() {
		return nil, ErrTerminalState
	}

	settlement.Status = target
	if target == StatusCompleted {
		settledAt := s.now().UTC()
		settlement.SettledAt = &settledAt
	}

	if err := s.repo.Update(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

func isParty(settlement *Settlement, email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	return settlement.PayerEmail == email || settlement.PayeeEmail == email
}
