package sharing

import (
	"context"
	"errors"

	"gorm.io/gorm"

	sharingdomain "splitledger-go/internal/domain/sharing"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(sharingdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *sharingdomain.SharedExpense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *PostgresRepository) GetExpenseByID(ctx context.Context, expenseID string) (*sharingdomain.SharedExpense, error) {
	var expense sharingdomain.SharedExpense
	if err := r.db.WithContext(ctx).Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sharingdomain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *PostgresRepository) UpdateExpense(ctx context.Context, expense *sharingdomain.SharedExpense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, expenseID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&sharingdomain.SharedExpense{}, "id = ?", expenseID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListExpensesForUser(ctx context.Context, userID, email string) ([]sharingdomain.SharedExpense, error) {
	var expenses []sharingdomain.SharedExpense
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", userID).
		Or("id IN (?)", r.db.Model(&sharingdomain.Participant{}).Select("expense_id").Where("email = ?", email)).
		Order("date desc, created_at desc").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *PostgresRepository) CreateParticipants(ctx context.Context, participants []sharingdomain.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&participants).Error
}

func (r *PostgresRepository) DeleteParticipantsByExpense(ctx context.Context, expenseID string) error {
	return r.db.WithContext(ctx).Where("expense_id = ?", expenseID).Delete(&sharingdomain.Participant{}).Error
}

func (r *PostgresRepository) GetParticipantsByExpense(ctx context.Context, expenseID string) ([]sharingdomain.Participant, error) {
	var participants []sharingdomain.Participant
	if err := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("created_at asc, email asc").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *PostgresRepository) GetParticipantsByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]sharingdomain.Participant, error) {
	result := make(map[string][]sharingdomain.Participant, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return result, nil
	}

	var participants []sharingdomain.Participant
	if err := r.db.WithContext(ctx).
		Where("expense_id IN (?)", expenseIDs).
		Order("created_at asc, email asc").
		Find(&participants).Error; err != nil {
		return nil, err
	}

	for _, participant := range participants {
		result[participant.ExpenseID] = append(result[participant.ExpenseID], participant)
	}
	return result, nil
}

func (r *PostgresRepository) GetParticipantByID(ctx context.Context, expenseID, participantID string) (*sharingdomain.Participant, error) {
	var participant sharingdomain.Participant
	if err := r.db.WithContext(ctx).
		Where("id = ? AND expense_id = ?", participantID, expenseID).
		First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sharingdomain.ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

func (r *PostgresRepository) UpdateParticipant(ctx context.Context, participant *sharingdomain.Participant) error {
	return r.db.WithContext(ctx).Save(participant).Error
}

func (r *PostgresRepository) ListBalanceRows(ctx context.Context, userID, email string) ([]sharingdomain.BalanceRow, error) {
	query := "SELECT p.expense_id AS expense_id, e.creator_id AS creator_id, e.creator_email AS creator_email, " +
		"p.email AS participant_email, p.name AS participant_name, " +
		"p.amount_owed AS amount_owed, p.amount_paid AS amount_paid, p.is_settled AS is_settled " +
		"FROM participants p JOIN shared_expenses e ON e.id = p.expense_id " +
		"WHERE e.creator_id = ? OR p.expense_id IN (SELECT expense_id FROM participants WHERE email = ?)"

	var rows []sharingdomain.BalanceRow
	if err := r.db.WithContext(ctx).Raw(query, userID, email).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
