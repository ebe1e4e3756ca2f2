package domain

// MigrationState is the durable flag guarding the one-shot legacy import.
type MigrationState string

const (
	NotMigrated MigrationState = "not_migrated"
	Migrated    MigrationState = "migrated"

	// LegacyImportKey names the flag row in the state table.
	LegacyImportKey = "legacy_import"
)
