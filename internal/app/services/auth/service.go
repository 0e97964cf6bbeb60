// Package auth issues and validates login tokens.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/resolvedesk/resolvedesk/internal/app/domain/auth"
	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/internal/middleware"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// ErrInvalidCredentials is returned when the email or password does not
// match. Handlers map it to HTTP 401.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service authenticates users and manages their sessions.
type Service struct {
	users    storage.UserStore
	sessions storage.SessionStore
	secret   []byte
	tokenTTL time.Duration
	log      *logger.Logger
}

// New constructs an auth service.
func New(users storage.UserStore, sessions storage.SessionStore, secret []byte, tokenTTL time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Login verifies the credentials and issues a signed token with a
// matching server-side session record.
func (s *Service) Login(ctx context.Context, email, password string) (string, user.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", user.User{}, ErrInvalidCredentials
		}
		return "", user.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.WithField("user_id", u.ID).Warn("login failed: wrong password")
		return "", user.User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.tokenTTL)

	claims := middleware.Claims{
		UserID:         u.ID,
		Email:          u.Email,
		Role:           string(u.Role),
		OrganizationID: u.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", user.User{}, fmt.Errorf("sign token: %w", err)
	}

	_, err = s.sessions.CreateSession(ctx, authdomain.Session{
		UserID:    u.ID,
		TokenHash: hashToken(token),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", user.User{}, fmt.Errorf("create session: %w", err)
	}

	s.log.WithField("user_id", u.ID).Info("user logged in")
	return token, u, nil
}

// Logout revokes the session behind the given token. An already-revoked
// token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.sessions.DeleteSessionByTokenHash(ctx, hashToken(token))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

// Validate checks the token signature and its server-side session, and
// returns the account it belongs to.
func (s *Service) Validate(ctx context.Context, token string) (user.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &middleware.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return user.User{}, ErrInvalidCredentials
	}

	sess, err := s.sessions.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	if time.Now().After(sess.ExpiresAt) {
		return user.User{}, ErrInvalidCredentials
	}

	return s.users.GetUser(ctx, sess.UserID)
}

// PurgeExpiredSessions drops sessions past their expiry.
func (s *Service) PurgeExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpiredSessions(ctx, time.Now().UTC())
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
