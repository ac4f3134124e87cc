package settlements

import (
	"context"
	"errors"

	"gorm.io/gorm"

	settlementsdomain "splitledger-go/internal/domain/settlements"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, settlement *settlementsdomain.Settlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, settlementID string) (*settlementsdomain.Settlement, error) {
	var settlement settlementsdomain.Settlement
	if err := r.db.WithContext(ctx).Where("id = ?", settlementID).First(&settlement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settlementsdomain.ErrSettlementNotFound
		}
		return nil, err
	}
	return &settlement, nil
}

func (r *PostgresRepository) Update(ctx context.Context, settlement *settlementsdomain.Settlement) error {
	return r.db.WithContext(ctx).Save(settlement).Error
}

func (r *PostgresRepository) ListByIdentity(ctx context.Context, email string) ([]settlementsdomain.Settlement, error) {
	var settlements []settlementsdomain.Settlement
	err := r.db.WithContext(ctx).
		Where("payer_email = ? OR payee_email = ?", email, email).
		Order("created_at desc").
		Find(&settlements).Error
	if err != nil {
		return nil, err
	}
	return settlements, nil
}
