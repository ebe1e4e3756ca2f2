package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

// UseCase is the user directory plus the login flows built on the session store.
type UseCase struct {
	users    repository.UserRepository
	sessions *SessionStore
	hasher   PasswordHasher
	clock    func() time.Time
	ids      func() string
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions *SessionStore, hasher PasswordHasher, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := applyOptions(opts)
	return &UseCase{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		clock:    o.clock,
		ids:      o.ids,
		logger:   logger,
	}
}

// Register creates an account. The email is trimmed and lowercased first.
func (uc *UseCase) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}
	if password == "" {
		return nil, domain.ErrEmptyPassword
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	digest, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "unusable password", err)
	}

	user := &domain.User{
		ID:           uc.ids(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: digest,
		CreatedAt:    domain.FormatTimestamp(uc.clock()),
	}
	// the unique index still guards a concurrent registration of the same email
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password return
// the same error.
func (uc *UseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !uc.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (uc *UseCase) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

// SignUp registers a user and opens a session for it.
func (uc *UseCase) SignUp(ctx context.Context, email, name, password string) (string, *domain.User, error) {
	user, err := uc.Register(ctx, email, name, password)
	if err != nil {
		return "", nil, err
	}
	return uc.openSession(ctx, user)
}

// Login authenticates and opens a session.
func (uc *UseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := uc.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	return uc.openSession(ctx, user)
}

// Logout revokes the token; it never fails.
func (uc *UseCase) Logout(ctx context.Context, token string) {
	uc.sessions.Revoke(ctx, token)
}

func (uc *UseCase) openSession(ctx context.Context, user *domain.User) (string, *domain.User, error) {
	token, err := uc.sessions.Issue(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
