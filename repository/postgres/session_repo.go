package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository stores sessions in the primary database.
func NewSessionRepository(pool *pgxpool.Pool) repository.SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	const query = `SELECT token, user_id, created_at FROM sessions WHERE token = $1`

	var session domain.Session
	if err := r.pool.QueryRow(ctx, query, token).Scan(&session.Token, &session.UserID, &session.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.Token == "" {
		return domain.ErrInvalidPayload
	}
	const query = `INSERT INTO sessions (token, user_id, created_at) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, session.Token, session.UserID, session.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrCodeConflict, "session token already issued")
		}
		return err
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}
