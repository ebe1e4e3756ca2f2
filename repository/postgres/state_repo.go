package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

type stateRepository struct {
	pool *pgxpool.Pool
}

// NewStateRepository exposes the app_state table.
func NewStateRepository(pool *pgxpool.Pool) repository.StateRepository {
	return &stateRepository{pool: pool}
}

func (r *stateRepository) MigrationState(ctx context.Context) (domain.MigrationState, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM app_state WHERE key = $1`, domain.LegacyImportKey).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotMigrated, nil
	}
	if err != nil {
		return "", err
	}
	return domain.MigrationState(value), nil
}

// ImportLegacy claims the flag row first; a concurrent importer blocks on the
// primary key until this transaction ends and then sees the row.
func (r *stateRepository) ImportLegacy(ctx context.Context, in repository.LegacyImport) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
	INSERT INTO app_state (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO NOTHING
	`, domain.LegacyImportKey, string(domain.Migrated))
	if err != nil {
		return false, fmt.Errorf("claim migration flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if len(in.Tasks) > 0 && in.Owner != nil {
		ownerID, err := r.ensureOwner(ctx, tx, in.Owner)
		if err != nil {
			return false, err
		}
		for i := range in.Tasks {
			task := in.Tasks[i]
			task.UserID = ownerID
			if err := insertTask(ctx, tx, &task); err != nil {
				return false, fmt.Errorf("import task %s: %w", task.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *stateRepository) ensureOwner(ctx context.Context, tx pgx.Tx, owner *domain.User) (string, error) {
	existing, err := scanUser(tx.QueryRow(ctx, selectUser+`WHERE email = $1`, owner.Email))
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}
	if err := insertUser(ctx, tx, owner); err != nil {
		return "", fmt.Errorf("create legacy owner: %w", err)
	}
	return owner.ID, nil
}
