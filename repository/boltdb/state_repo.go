package boltdb

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/planner/domain"
	boltInfra "github.com/fastygo/planner/internal/infrastructure/boltdb"
	"github.com/fastygo/planner/repository"
)

type stateRepository struct {
	db *bolt.DB
}

// NewStateRepository exposes the state bucket of the bbolt file.
func NewStateRepository(db *bolt.DB) repository.StateRepository {
	return &stateRepository{db: db}
}

func (r *stateRepository) MigrationState(ctx context.Context) (domain.MigrationState, error) {
	state := domain.NotMigrated
	err := r.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(boltInfra.BucketState).Get([]byte(domain.LegacyImportKey)); value != nil {
			state = domain.MigrationState(value)
		}
		return nil
	})
	return state, err
}

// ImportLegacy runs in a single bbolt write transaction, which bbolt
// serializes, so the flag check and the writes cannot interleave.
func (r *stateRepository) ImportLegacy(ctx context.Context, in repository.LegacyImport) (bool, error) {
	imported := false
	err := r.db.Update(func(tx *bolt.Tx) error {
		state := tx.Bucket(boltInfra.BucketState)
		if domain.MigrationState(state.Get([]byte(domain.LegacyImportKey))) == domain.Migrated {
			return nil
		}

		if len(in.Tasks) > 0 && in.Owner != nil {
			ownerID, err := ensureOwner(tx, in.Owner)
			if err != nil {
				return err
			}
			for i := range in.Tasks {
				task := in.Tasks[i]
				task.UserID = ownerID
				if err := putNewTask(tx, &task); err != nil {
					return fmt.Errorf("import task %s: %w", task.ID, err)
				}
			}
		}

		imported = true
		return state.Put([]byte(domain.LegacyImportKey), []byte(domain.Migrated))
	})
	if err != nil {
		return false, err
	}
	return imported, nil
}

func ensureOwner(tx *bolt.Tx, owner *domain.User) (string, error) {
	if id := tx.Bucket(boltInfra.BucketUsersByEmail).Get([]byte(owner.Email)); id != nil {
		return string(id), nil
	}
	if err := putUser(tx, owner); err != nil {
		return "", fmt.Errorf("create legacy owner: %w", err)
	}
	return owner.ID, nil
}
