package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/S-Stepanov-1/contacts-api/internal/domain"
	"github.com/S-Stepanov-1/contacts-api/internal/infrastructure/smtp"
	"github.com/S-Stepanov-1/contacts-api/internal/infrastructure/token"
	"github.com/S-Stepanov-1/contacts-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is the access/refresh pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RegisterResult reports the created account and whether the confirmation
// email went out. EmailSent=false is a degraded success: the account exists
// and the user can request a re-send.
type RegisterResult struct {
	User      *domain.User
	EmailSent bool
}

type Service interface {
	Register(ctx context.Context, req domain.SignupRequest) (*RegisterResult, error)
	VerifyEmail(ctx context.Context, tokenStr string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, req domain.LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tokenStr, newPassword string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	RotateRefreshFingerprint(ctx context.Context, userID, oldFP, newFP string) error
	ConsumeResetToken(ctx context.Context, userID, tokenHash, newPasswordHash string) error
}

type tokenProvider interface {
	Issue(subject string, purpose token.Purpose) (string, error)
	Verify(tokenStr string, expected token.Purpose) (string, error)
}

type service struct {
	users    userStore
	tokens   tokenProvider
	notifier smtp.Notifier
}

type ServiceDeps struct {
	UserRepo userStore
	Tokens   tokenProvider
	Notifier smtp.Notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:    deps.UserRepo,
		tokens:   deps.Tokens,
		notifier: deps.Notifier,
	}
}

const fieldRefreshFingerprint = "refresh_fingerprint"

func (s *service) Register(ctx context.Context, req domain.SignupRequest) (*RegisterResult, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}

	// Account creation is not rolled back on delivery failure; the user can
	// request a re-send.
	sent := s.sendVerification(u)
	return &RegisterResult{User: u, EmailSent: sent}, nil
}

func (s *service) VerifyEmail(ctx context.Context, tokenStr string) error {
	userID, err := s.tokens.Verify(tokenStr, token.PurposeEmailVerify)
	if err != nil {
		return err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		// A valid token for an account that no longer exists is just a bad
		// token; a store fault stays a store fault.
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("verify email: %w", domain.ErrInvalidToken)
		}
		return err
	}
	// Verifying an already-confirmed account is a no-op success.
	if u.Confirmed {
		return nil
	}
	return s.users.Update(ctx, u.UserID, map[string]interface{}{"confirmed": true})
}

func (s *service) ResendVerification(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		// Uniform response: do not reveal whether the address is registered.
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if u.Confirmed {
		return nil
	}
	s.sendVerification(u)
	return nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		// Unknown email and wrong password are indistinguishable to the caller,
		// but a store fault must not masquerade as bad credentials.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}
	if !u.Confirmed {
		return nil, fmt.Errorf("login: %w", domain.ErrNotVerified)
	}
	pair, fp, err := s.issuePair(u.UserID)
	if err != nil {
		return nil, err
	}
	// Overwrites any prior fingerprint: at most one valid refresh token per
	// account at a time.
	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{fieldRefreshFingerprint: fp}); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.tokens.Verify(refreshToken, token.PurposeRefresh)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", domain.ErrInvalidToken)
		}
		return nil, err
	}
	presented := fingerprint(refreshToken)
	if u.RefreshFingerprint == "" || u.RefreshFingerprint != presented {
		// A cryptographically valid token that no longer matches the stored
		// fingerprint means a superseded token is being replayed.
		return nil, s.flagReuse(ctx, userID)
	}
	pair, newFP, err := s.issuePair(userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.RotateRefreshFingerprint(ctx, userID, presented, newFP); err != nil {
		if errors.Is(err, domain.ErrTokenReuse) {
			// A concurrent refresh won the rotation race with the same token.
			return nil, s.flagReuse(ctx, userID)
		}
		return nil, err
	}
	return pair, nil
}

func (s *service) Logout(ctx context.Context, userID string) error {
	// Clearing the fingerprint permanently rejects every refresh token issued
	// so far, even those that have not yet expired.
	return s.users.Update(ctx, userID, map[string]interface{}{fieldRefreshFingerprint: ""})
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		// Uniform success whether or not the email exists.
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	resetToken, err := s.tokens.Issue(u.UserID, token.PurposePasswordReset)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{"reset_token_hash": fingerprint(resetToken)}); err != nil {
		return err
	}
	if err := s.notifier.SendPasswordReset(u.Email, resetToken); err != nil {
		slog.Warn("failed to send password reset email", "user_id", u.UserID, "err", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	userID, err := s.tokens.Verify(tokenStr, token.PurposePasswordReset)
	if err != nil {
		return err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("reset password: %w", domain.ErrInvalidToken)
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	// Single conditional write: the presented token must still match the
	// stored hash (single use) and the same update clears the reset state and
	// the refresh fingerprint, forcing re-login after recovery.
	if err := s.users.ConsumeResetToken(ctx, userID, fingerprint(tokenStr), string(hash)); err != nil {
		return err
	}
	if err := s.notifier.SendPasswordChanged(u.Email); err != nil {
		slog.Warn("failed to send password changed email", "user_id", userID, "err", err)
	}
	return nil
}

func (s *service) issuePair(userID string) (*TokenPair, string, error) {
	access, err := s.tokens.Issue(userID, token.PurposeAccess)
	if err != nil {
		return nil, "", err
	}
	refresh, err := s.tokens.Issue(userID, token.PurposeRefresh)
	if err != nil {
		return nil, "", err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, fingerprint(refresh), nil
}

// flagReuse invalidates the stored fingerprint entirely so every outstanding
// refresh token is rejected and the account must log in again.
func (s *service) flagReuse(ctx context.Context, userID string) error {
	slog.Warn("refresh token reuse detected", "user_id", userID)
	if err := s.users.Update(ctx, userID, map[string]interface{}{fieldRefreshFingerprint: ""}); err != nil {
		slog.Warn("failed to invalidate refresh fingerprint", "user_id", userID, "err", err)
	}
	return fmt.Errorf("refresh: %w", domain.ErrTokenReuse)
}

func (s *service) sendVerification(u *domain.User) bool {
	verifyToken, err := s.tokens.Issue(u.UserID, token.PurposeEmailVerify)
	if err != nil {
		slog.Warn("failed to issue verification token", "user_id", u.UserID, "err", err)
		return false
	}
	if err := s.notifier.SendVerification(u.Email, verifyToken); err != nil {
		slog.Warn("failed to send verification email", "user_id", u.UserID, "err", err)
		return false
	}
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func fingerprint(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return hex.EncodeToString(sum[:])
}
