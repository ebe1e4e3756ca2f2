package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
	"github.com/fastygo/planner/usecase/auth"
)

// Config names the legacy file and the account that receives its tasks.
type Config struct {
	TasksFile    string
	DemoEmail    string
	DemoName     string
	DemoPassword string
}

// Result summarizes one Run.
type Result struct {
	// Skipped is true when an earlier run already flipped the flag.
	Skipped  bool
	Imported int
}

// Importer moves the legacy tasks file into the store once per deployment.
type Importer struct {
	states repository.StateRepository
	hasher auth.PasswordHasher
	cfg    Config
	logger *zap.Logger
	clock  func() time.Time
	ids    func() string
}

func NewImporter(states repository.StateRepository, hasher auth.PasswordHasher, cfg Config, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		states: states,
		hasher: hasher,
		cfg:    cfg,
		logger: logger,
		clock:  time.Now,
		ids:    uuid.NewString,
	}
}

// Run imports the legacy file if the store has never been migrated. A broken
// legacy file counts as an empty one. Store failures and a demo owner that
// cannot be prepared are returned with the flag left unset, so the next
// start retries.
func (im *Importer) Run(ctx context.Context) (Result, error) {
	state, err := im.states.MigrationState(ctx)
	if err != nil {
		return Result{}, err
	}
	if state == domain.Migrated {
		im.logger.Info("legacy import already done, skipping")
		return Result{Skipped: true}, nil
	}

	tasks := im.load()

	in := repository.LegacyImport{Tasks: tasks}
	if len(tasks) > 0 {
		owner, err := im.owner()
		if err != nil {
			return Result{}, fmt.Errorf("prepare legacy owner: %w", err)
		}
		in.Owner = owner
	}

	imported, err := im.states.ImportLegacy(ctx, in)
	if err != nil {
		return Result{}, err
	}
	if !imported {
		im.logger.Info("legacy import completed by another process, skipping")
		return Result{Skipped: true}, nil
	}

	result := Result{Imported: len(in.Tasks)}
	im.logger.Info("legacy import finished",
		zap.Int("tasks", result.Imported),
		zap.String("file", im.cfg.TasksFile))
	return result, nil
}

func (im *Importer) load() []domain.Task {
	if im.cfg.TasksFile == "" {
		return nil
	}
	items, err := readFile(im.cfg.TasksFile)
	if err != nil {
		im.logger.Warn("legacy tasks file unreadable, nothing to import",
			zap.String("file", im.cfg.TasksFile), zap.Error(err))
		return nil
	}

	now := im.clock()
	seen := make(map[string]struct{}, len(items))
	tasks := make([]domain.Task, 0, len(items))
	for i, raw := range items {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			im.logger.Warn("skipping malformed legacy task", zap.Int("index", i), zap.Error(err))
			continue
		}
		task := rec.toTask()
		if _, dup := seen[task.ID]; dup {
			task.ID = ""
		}
		task.FillDefaults(im.ids, now)
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}
	return tasks
}

func (im *Importer) owner() (*domain.User, error) {
	digest, err := im.hasher.Hash(im.cfg.DemoPassword)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           im.ids(),
		Email:        domain.NormalizeEmail(im.cfg.DemoEmail),
		Name:         im.cfg.DemoName,
		PasswordHash: digest,
		CreatedAt:    domain.FormatTimestamp(im.clock()),
	}, nil
}
