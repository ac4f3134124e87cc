package investments

import (
	"context"
	"errors"

	"gorm.io/gorm"

	investmentsdomain "splitledger-go/internal/domain/investments"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, holding *investmentsdomain.Holding) error {
	return r.db.WithContext(ctx).Create(holding).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, holdingID string) (*investmentsdomain.Holding, error) {
	var holding investmentsdomain.Holding
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", holdingID, userID).First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, investmentsdomain.ErrHoldingNotFound
		}
		return nil, err
	}
	return &holding, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]investmentsdomain.Holding, error) {
	var holdings []investmentsdomain.Holding
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("symbol asc").
		Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

func (r *PostgresRepository) Update(ctx context.Context, holding *investmentsdomain.Holding) error {
	return r.db.WithContext(ctx).Save(holding).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, holdingID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&investmentsdomain.Holding{}, "id = ? AND user_id = ?", holdingID, userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
