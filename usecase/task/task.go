package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

// CreateInput is an already-decoded create request.
type CreateInput struct {
	Text     string
	Category string
	Project  string
	Date     *string
}

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
	clock  func() time.Time
	ids    func() string
}

// Option overrides a collaborator, mostly for tests.
type Option func(*UseCase)

func WithClock(clock func() time.Time) Option {
	return func(uc *UseCase) { uc.clock = clock }
}

func WithIDGenerator(ids func() string) Option {
	return func(uc *UseCase) { uc.ids = ids }
}

func New(tasks repository.TaskRepository, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:  tasks,
		logger: logger,
		clock:  time.Now,
		ids:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ListTasks returns the owner's tasks, oldest first.
func (uc *UseCase) ListTasks(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return uc.tasks.List(ctx, ownerID)
}

func (uc *UseCase) GetTask(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	return uc.tasks.GetOwned(ctx, ownerID, id)
}

func (uc *UseCase) CreateTask(ctx context.Context, ownerID string, in CreateInput) (*domain.Task, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	category := domain.DefaultCategory
	if in.Category != "" {
		category = domain.Category(in.Category)
		if !category.Valid() {
			return nil, domain.ErrInvalidCategory
		}
	}

	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		UserID:   ownerID,
		Category: category,
		Project:  in.Project,
		Date:     date,
	}
	task.SetText(text)
	task.FillDefaults(uc.ids, uc.clock())

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("task created", zap.String("task_id", created.ID), zap.String("user_id", ownerID))
	return created, nil
}

// PatchTask applies only the fields present in patch, inside one store
// transaction.
func (uc *UseCase) PatchTask(ctx context.Context, ownerID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return uc.tasks.Update(ctx, ownerID, id, func(task *domain.Task) error {
		patch.Apply(task)
		return nil
	})
}

func (uc *UseCase) DeleteTask(ctx context.Context, ownerID, id string) error {
	if err := uc.tasks.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	uc.logger.Debug("task deleted", zap.String("task_id", id), zap.String("user_id", ownerID))
	return nil
}

func validatePatch(patch domain.TaskPatch) error {
	if patch.Text != nil && strings.TrimSpace(*patch.Text) == "" {
		return domain.ErrEmptyText
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return domain.ErrInvalidCategory
	}
	if patch.Date != nil && *patch.Date != "" && !domain.ValidDate(*patch.Date) {
		return domain.ErrInvalidDate
	}
	return nil
}

func normalizeDate(date *string) (*string, error) {
	if date == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*date)
	if value == "" {
		return nil, nil
	}
	if !domain.ValidDate(value) {
		return nil, domain.ErrInvalidDate
	}
	return &value, nil
}
