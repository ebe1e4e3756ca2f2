package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

const tokenBytes = 32

// TokenGenerator produces opaque bearer tokens.
type TokenGenerator func() (string, error)

// RandomToken returns 256 bits from crypto/rand, hex encoded.
func RandomToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// SessionStore issues, resolves and revokes bearer tokens.
type SessionStore struct {
	sessions repository.SessionRepository
	tokens   TokenGenerator
	clock    func() time.Time
	logger   *zap.Logger
}

func NewSessionStore(sessions repository.SessionRepository, logger *zap.Logger, opts ...Option) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := applyOptions(opts)
	return &SessionStore{
		sessions: sessions,
		tokens:   o.tokens,
		clock:    o.clock,
		logger:   logger,
	}
}

// Issue persists a new session for userID and returns its token.
func (s *SessionStore) Issue(ctx context.Context, userID string) (string, error) {
	token, err := s.tokens()
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "generate session token", err)
	}
	session := &domain.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: domain.FormatTimestamp(s.clock()),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user bound to token or domain.ErrUnauthorized.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	return session.UserID, nil
}

// Revoke deletes the session if present. Failures are logged, never returned:
// logout always succeeds from the caller's point of view.
func (s *SessionStore) Revoke(ctx context.Context, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		s.logger.Warn("session revoke failed", zap.Error(err))
	}
}
