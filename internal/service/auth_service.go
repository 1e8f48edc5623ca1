package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nik/article-hub/internal/auth"
	"github.com/nik/article-hub/internal/domain"
	"github.com/nik/article-hub/internal/repository"
)

// ConfirmationSender delivers the account-confirmation mail. Sends are
// fire-and-forget: failures are logged and never fail the caller.
type ConfirmationSender interface {
	SendConfirmation(token, address string) error
}

type AuthService struct {
	userRepo repository.UserRepository
	denylist repository.TokenDenylist
	tokens   *auth.TokenService
	mailer   ConfirmationSender
}

func NewAuthService(userRepo repository.UserRepository, denylist repository.TokenDenylist, tokens *auth.TokenService, mailer ConfirmationSender) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		denylist: denylist,
		tokens:   tokens,
		mailer:   mailer,
	}
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	exists, err := s.userRepo.Exists(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UserID:       uuid.New(),
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		Active:       false,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.mailer.SendConfirmation(token, user.Email); err != nil {
			log.Printf("ERROR [service.Auth] confirmation mail to %s failed: %v", user.Email, err)
		}
	}()

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh issues a new access token for a user already authenticated with a
// refresh token by the session middleware.
func (s *AuthService) Refresh(user *domain.User) (string, error) {
	return s.tokens.IssueAccess(user)
}

// Confirm validates a confirmation token from the emailed link and activates
// its subject.
func (s *AuthService) Confirm(ctx context.Context, token string) error {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return err
	}
	return s.userRepo.Activate(ctx, claims.Subject)
}

// Logout revokes the token until its natural expiry. Tokens that no longer
// decode are already unusable, so revoking them is a silent no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil
	}
	return s.denylist.Revoke(ctx, token, time.Until(claims.ExpiresAt.Time))
}

// Authenticate runs the per-request session pipeline: denylist check, token
// decode, type check, then subject lookup. Token integrity alone is not
// enough; the referenced user must still exist.
func (s *AuthService) Authenticate(ctx context.Context, token string, want auth.TokenType) (*domain.User, error) {
	revoked, err := s.denylist.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, err
	}

	if err := auth.RequireType(claims, want); err != nil {
		return nil, err
	}

	return s.userRepo.GetByUsername(ctx, claims.Subject)
}
