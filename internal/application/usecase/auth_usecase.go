// internal/application/usecase/auth_usecase.go
package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	ErrAuthInvalidInput       = errors.New("auth: invalid email or password format")
	ErrAuthInvalidCredentials = errors.New("auth: invalid credentials")
	ErrAuthTooManyAttempts    = errors.New("auth: too many login attempts")
	ErrAuthSessionNotFound    = errors.New("auth: session not found")
	ErrAuthNotConfigured      = errors.New("auth: admin credentials are not configured")
)

// DefaultAdminSessionTTL matches the admin cookie lifetime.
const DefaultAdminSessionTTL = 7 * 24 * time.Hour

// AdminSessionStore keeps opaque admin tokens.
type AdminSessionStore interface {
	Put(ctx context.Context, token, email string, ttl time.Duration) error
	Get(ctx context.Context, token string) (email string, ok bool, err error)
	Delete(ctx context.Context, token string) error
}

// AdminCredentials is the single static operator account.
type AdminCredentials struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AdminSession struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthUsecase checks the static admin credentials and issues session tokens.
type AuthUsecase struct {
	creds    AdminCredentials
	sessions AdminSessionStore
	ttl      time.Duration
	validate *validator.Validate
	now      func() time.Time

	// adminLimiter guards the configured email; every other email shares
	// otherLimiter so unknown addresses never allocate per-key state.
	adminLimiter *rate.Limiter
	otherLimiter *rate.Limiter
}

func NewAuthUsecase(creds AdminCredentials, sessions AdminSessionStore) *AuthUsecase {
	return &AuthUsecase{
		creds: AdminCredentials{
			Email:    strings.TrimSpace(creds.Email),
			Password: creds.Password,
		},
		sessions: sessions,
		ttl:      DefaultAdminSessionTTL,
		validate: validator.New(),
		now:      time.Now,

		// 5 attempts, then one every 12s
		adminLimiter: rate.NewLimiter(rate.Every(12*time.Second), 5),
		otherLimiter: rate.NewLimiter(rate.Every(12*time.Second), 5),
	}
}

func (uc *AuthUsecase) Login(ctx context.Context, in LoginInput) (AdminSession, error) {
	if uc.creds.Email == "" || uc.creds.Password == "" || uc.sessions == nil {
		return AdminSession{}, ErrAuthNotConfigured
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.validate.Struct(in); err != nil {
		return AdminSession{}, ErrAuthInvalidInput
	}
	if !uc.limiter(in.Email).Allow() {
		log.Printf("[auth_uc] throttled login email=%s", in.Email)
		return AdminSession{}, ErrAuthTooManyAttempts
	}

	emailOK := subtle.ConstantTimeCompare([]byte(in.Email), []byte(strings.ToLower(uc.creds.Email))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(in.Password), []byte(uc.creds.Password)) == 1
	if !emailOK || !passOK {
		return AdminSession{}, ErrAuthInvalidCredentials
	}

	s := AdminSession{
		Token:     uuid.NewString(),
		Email:     in.Email,
		ExpiresAt: uc.now().Add(uc.ttl),
	}
	if err := uc.sessions.Put(ctx, s.Token, s.Email, uc.ttl); err != nil {
		return AdminSession{}, err
	}
	log.Printf("[auth_uc] admin login email=%s", s.Email)
	return s, nil
}

// Verify returns the email bound to token.
func (uc *AuthUsecase) Verify(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" || uc.sessions == nil {
		return "", ErrAuthSessionNotFound
	}
	email, ok, err := uc.sessions.Get(ctx, token)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAuthSessionNotFound
	}
	return email, nil
}

func (uc *AuthUsecase) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || uc.sessions == nil {
		return nil
	}
	return uc.sessions.Delete(ctx, token)
}

func (uc *AuthUsecase) TTL() time.Duration { return uc.ttl }

func (uc *AuthUsecase) limiter(email string) *rate.Limiter {
	if email == strings.ToLower(uc.creds.Email) {
		return uc.adminLimiter
	}
	return uc.otherLimiter
}
