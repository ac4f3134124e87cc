package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"splitledger-go/internal/auth"
	"splitledger-go/pkg/logger"
)

type Service struct {
	repo   Repository
	hasher *auth.PasswordHasher
	tokens *auth.JWTManager
	log    logger.Logger
}

func NewService(repo Repository, hasher *auth.PasswordHasher, tokens *auth.JWTManager, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if err := s.hasher.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}

	s.log.Info("users: registered", "user_id", user.ID)
	return s.newSession(&user)
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, err
	}
	return s.newSession(user)
}

func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// DisplayName resolves an identity to the registered name, falling back to
// the raw identity for people who never signed up.
func (s *Service) DisplayName(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.Name, nil
}

// IDByEmail maps an identity to a registered account, if one exists.
func (s *Service) IDByEmail(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (s *Service) newSession(user *User) (*Session, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
