package groups

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"splitledger-go/pkg/logger"
)

const (
	joinCodeLength   = 6
	joinCodeAttempts = 10
)

type Service struct {
	repo  Repository
	users UserLookup
	log   logger.Logger
}

func NewService(repo Repository, users UserLookup, log logger.Logger) *Service {
	return &Service{repo: repo, users: users, log: log}
}

func (s *Service) Create(ctx context.Context, userID, name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		group := Group{
			ID:      uuid.NewString(),
			Name:    name,
			Code:    code,
			OwnerID: userID,
		}
		if err := tx.CreateGroup(ctx, &group); err != nil {
			return err
		}

		member := GroupMember{
			GroupID: group.ID,
			UserID:  userID,
			Role:    RoleOwner,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = group
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) Join(ctx context.Context, userID, code string) (*Group, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrGroupCodeNotFound
	}

	var result Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := tx.GetGroupByCode(ctx, code)
		if err != nil {
			return err
		}

		if _, err := tx.GetMember(ctx, group.ID, userID); err == nil {
			return ErrAlreadyMember
		} else if !errors.Is(err, ErrMemberNotFound) {
			return err
		}

		member := GroupMember{
			GroupID: group.ID,
			UserID:  userID,
			Role:    RoleMember,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = *group
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Leave removes the caller from a group. The owner can only leave as the
// last member, which dissolves the group.
func (s *Service) Leave(ctx context.Context, userID, groupID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMember(ctx, groupID, userID)
		if err != nil {
			return err
		}

		if member.Role == RoleOwner {
			count, err := tx.CountMembers(ctx, groupID)
			if err != nil {
				return err
			}
			if count > 1 {
				return ErrOwnerMustTransfer
			}

			if err := tx.DeleteMembersByGroup(ctx, groupID); err != nil {
				return err
			}
			return tx.DeleteGroup(ctx, groupID)
		}

		return tx.DeleteMember(ctx, groupID, userID)
	})
}

func (s *Service) Get(ctx context.Context, userID, groupID string) (*Group, error) {
	if _, err := s.repo.GetMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return s.repo.GetGroupByID(ctx, groupID)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Group, error) {
	return s.repo.ListGroupsByUser(ctx, userID)
}

func (s *Service) ListMembers(ctx context.Context, userID, groupID string) ([]GroupMember, error) {
	if _, err := s.repo.GetMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return s.repo.ListMembers(ctx, groupID)
}

func (s *Service) Rename(ctx context.Context, userID, groupID, name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != userID {
		return nil, ErrNotOwner
	}

	if err := s.repo.UpdateGroupName(ctx, groupID, name); err != nil {
		return nil, err
	}
	group.Name = name
	return group, nil
}

func (s *Service) RemoveMember(ctx context.Context, callerID, groupID, memberID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := tx.GetGroupByID(ctx, groupID)
		if err != nil {
			return err
		}
		if group.OwnerID != callerID {
			return ErrNotOwner
		}
		if memberID == group.OwnerID {
			return ErrCannotRemoveOwner
		}

		if _, err := tx.GetMember(ctx, groupID, memberID); err != nil {
			return err
		}
		return tx.DeleteMember(ctx, groupID, memberID)
	})
}

// IsMember reports whether the user belongs to the group.
func (s *Service) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	_, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddMembersByEmail enrolls registered users into a group by identity.
// Identities without an account are skipped; membership conflicts are not
// errors here since the caller only cares that everyone ends up a member.
func (s *Service) AddMembersByEmail(ctx context.Context, groupID string, emails []string) error {
	for _, email := range emails {
		userID, err := s.users.IDByEmail(ctx, email)
		if err != nil {
			s.log.Debug("groups: skipping unregistered identity", "group_id", groupID)
			continue
		}

		member := GroupMember{
			GroupID: groupID,
			UserID:  userID,
			Role:    RoleMember,
		}
		if err := s.repo.AddMember(ctx, &member); err != nil && !errors.Is(err, ErrAlreadyMember) {
			return err
		}
	}
	return nil
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code, err := generateCode(joinCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

// generateCode draws from an alphabet with no 0/O or 1/I so codes survive
// being read aloud.
func generateCode(length int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}
