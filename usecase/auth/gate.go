package auth

import (
	"context"
	"strings"

	"github.com/fastygo/planner/domain"
)

const bearerPrefix = "Bearer "

// Gate turns an Authorization header into the caller's user id.
type Gate struct {
	sessions *SessionStore
}

func NewGate(sessions *SessionStore) *Gate {
	return &Gate{sessions: sessions}
}

// AuthenticateRequest fails with domain.ErrUnauthorized unless header is
// "Bearer <token>" with a live token.
func (g *Gate) AuthenticateRequest(ctx context.Context, header string) (string, error) {
	token, ok := BearerToken(header)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return g.sessions.Resolve(ctx, token)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}
