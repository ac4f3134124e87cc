package groups

import (
	"context"
	"errors"

	"gorm.io/gorm"

	groupsdomain "splitledger-go/internal/domain/groups"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(groupsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *groupsdomain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresRepository) GetGroupByID(ctx context.Context, groupID string) (*groupsdomain.Group, error) {
	var group groupsdomain.Group
	if err := r.db.WithContext(ctx).Where("id = ?", groupID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupsdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) GetGroupByCode(ctx context.Context, code string) (*groupsdomain.Group, error) {
	var group groupsdomain.Group
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupsdomain.ErrGroupCodeNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) ListGroupsByUser(ctx context.Context, userID string) ([]groupsdomain.Group, error) {
	var groups []groupsdomain.Group
	err := r.db.WithContext(ctx).
		Table("groups").
		Joins("join group_members on group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.created_at asc").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresRepository) UpdateGroupName(ctx context.Context, groupID, name string) error {
	return r.db.WithContext(ctx).Model(&groupsdomain.Group{}).Where("id = ?", groupID).Update("name", name).Error
}

func (r *PostgresRepository) DeleteGroup(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).Delete(&groupsdomain.Group{}, "id = ?", groupID).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *groupsdomain.GroupMember) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return groupsdomain.ErrAlreadyMember
	}
	return err
}

func (r *PostgresRepository) GetMember(ctx context.Context, groupID, userID string) (*groupsdomain.GroupMember, error) {
	var member groupsdomain.GroupMember
	if err := r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupsdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, groupID string) ([]groupsdomain.GroupMember, error) {
	var members []groupsdomain.GroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, groupID, userID string) error {
	return r.db.WithContext(ctx).Delete(&groupsdomain.GroupMember{}, "group_id = ? AND user_id = ?", groupID, userID).Error
}

func (r *PostgresRepository) DeleteMembersByGroup(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&groupsdomain.GroupMember{}).Error
}

func (r *PostgresRepository) CountMembers(ctx context.Context, groupID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&groupsdomain.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&groupsdomain.Group{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
