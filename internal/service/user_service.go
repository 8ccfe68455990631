package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pawell24/TimeTracker/internal/auth"
	dom "github.com/pawell24/TimeTracker/internal/domain"
	"github.com/pawell24/TimeTracker/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidLogin        = errors.New("invalid email or password")
	ErrInvalidConfirmToken = errors.New("invalid or expired confirmation token")
)

// ConfirmTokens issues and consumes one-time email confirmation tokens.
type ConfirmTokens interface {
	Issue(ctx context.Context, userID string) (string, error)
	Consume(ctx context.Context, token string) (string, error)
}

// UserService handles registration, email confirmation and login.
type UserService struct {
	repo     repo.UserRepo
	tokens   ConfirmTokens
	secret   []byte
	tokenTTL time.Duration
}

// NewUserService returns a new UserService. secret signs access tokens.
func NewUserService(r repo.UserRepo, tokens ConfirmTokens, secret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{repo: r, tokens: tokens, secret: secret, tokenTTL: tokenTTL}
}

// Register creates an unconfirmed user with a hashed password and returns
// the user together with a one-time confirmation token.
func (s *UserService) Register(ctx context.Context, email, password string) (dom.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return dom.User{}, "", ErrInvalidLogin
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, "", err
	}
	u, err := s.repo.Create(ctx, uuid.NewString(), email, string(hash))
	if err != nil {
		if errors.Is(err, repo.ErrEmailExists) {
			return dom.User{}, "", ErrEmailTaken
		}
		return dom.User{}, "", err
	}
	token, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		return dom.User{}, "", err
	}
	return u, token, nil
}

// ConfirmEmail consumes the token and marks its user as confirmed.
// Confirmation is one way: a confirmed user never reverts.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			return ErrInvalidConfirmToken
		}
		return err
	}
	if err := s.repo.SetConfirmed(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidConfirmToken
		}
		return err
	}
	return nil
}

// Login checks credentials and returns a signed access token. Unknown
// email, unconfirmed account and wrong password are indistinguishable to
// the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidLogin
		}
		return "", err
	}
	if !u.Confirmed {
		return "", ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidLogin
	}
	return auth.GenerateToken(u.ID, s.secret, s.tokenTTL)
}
