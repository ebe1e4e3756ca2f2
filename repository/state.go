package repository

import (
	"context"

	"github.com/fastygo/planner/domain"
)

// LegacyImport is the payload of the one-shot import. Owner is only created
// when Tasks is non-empty; an existing account with the same email is reused.
type LegacyImport struct {
	Owner *domain.User
	Tasks []domain.Task
}

// StateRepository persists the migration flag and applies the legacy import.
type StateRepository interface {
	MigrationState(ctx context.Context) (domain.MigrationState, error)
	// ImportLegacy writes the import and flips the flag to Migrated in one
	// transaction. It returns false without writing when the flag was already set.
	ImportLegacy(ctx context.Context, in LegacyImport) (bool, error)
}
