package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/planner/domain"
)

func TestSessionIssueResolveRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tokens := map[string]string{}
	for _, userID := range []string{"u1", "u2", "u1"} {
		token, err := f.sessions.Issue(ctx, userID)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if _, dup := tokens[token]; dup {
			t.Fatalf("token %s issued twice", token)
		}
		tokens[token] = userID
	}

	for token, userID := range tokens {
		got, err := f.sessions.Resolve(ctx, token)
		if err != nil || got != userID {
			t.Fatalf("resolve %s: got %q err %v", token, got, err)
		}
	}

	for token := range tokens {
		f.sessions.Revoke(ctx, token)
		if _, err := f.sessions.Resolve(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected unauthorized after revoke, got %v", err)
		}
	}
}

func TestRevokeUnknownTokenIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.sessions.Issue(ctx, "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	f.sessions.Revoke(ctx, "")
	f.sessions.Revoke(ctx, "   ")
	f.sessions.Revoke(ctx, "garbage")
	f.sessions.Revoke(ctx, token)
	f.sessions.Revoke(ctx, token)

	other, err := f.sessions.Issue(ctx, "u2")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	f.sessions.Revoke(ctx, "garbage")
	if got, err := f.sessions.Resolve(ctx, other); err != nil || got != "u2" {
		t.Fatalf("unrelated session affected: %q %v", got, err)
	}
}

func TestResolveRejectsEmptyAndUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, token := range []string{"", "  ", "unknown"} {
		if _, err := f.sessions.Resolve(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("resolve(%q): expected unauthorized, got %v", token, err)
		}
	}
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	b, _ := RandomToken()
	if len(a) != 2*tokenBytes {
		t.Fatalf("unexpected token length %d", len(a))
	}
	if a == b {
		t.Fatal("tokens must differ")
	}
}
