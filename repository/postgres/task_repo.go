package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const selectTask = `
	SELECT id, user_id, text, title, category, project, date, done, created_at
	FROM tasks
`

// ownedTask is the single ownership predicate every scoped statement uses.
const ownedTask = ` WHERE id = $1 AND user_id = $2`

func (r *taskRepository) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, selectTask+`
	WHERE user_id = $1
	ORDER BY created_at ASC, seq ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) GetOwned(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, selectTask+ownedTask, id, ownerID)
	return scanTask(row)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := insertTask(ctx, r.pool, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, ownerID, id string, mutate repository.TaskMutation) (*domain.Task, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	task, err := scanTask(tx.QueryRow(ctx, selectTask+ownedTask+` FOR UPDATE`, id, ownerID))
	if err != nil {
		return nil, err
	}
	if err := mutate(task); err != nil {
		return nil, err
	}

	const query = `
	UPDATE tasks
	SET text = $3,
		title = $4,
		category = $5,
		project = $6,
		date = $7,
		done = $8
	` + ownedTask

	if _, err := tx.Exec(ctx, query,
		id,
		ownerID,
		task.Text,
		task.Title,
		string(task.Category),
		task.Project,
		nullString(task.Date),
		task.Done,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks`+ownedTask, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func insertTask(ctx context.Context, db execer, task *domain.Task) error {
	const query = `
	INSERT INTO tasks (id, user_id, text, title, category, project, date, done, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := db.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Text,
		task.Title,
		string(task.Category),
		task.Project,
		nullString(task.Date),
		task.Done,
		task.CreatedAt,
	)
	return err
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		category string
		date     *string
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Text,
		&task.Title,
		&category,
		&task.Project,
		&date,
		&task.Done,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Category = domain.Category(category)
	task.Date = date
	return &task, nil
}
