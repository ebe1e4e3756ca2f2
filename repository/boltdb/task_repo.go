package boltdb

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/planner/domain"
	boltInfra "github.com/fastygo/planner/internal/infrastructure/boltdb"
	"github.com/fastygo/planner/repository"
)

type taskRepository struct {
	db *bolt.DB
}

// NewTaskRepository stores tasks in the bbolt file.
func NewTaskRepository(db *bolt.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	var records []taskRecord
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(boltInfra.BucketTasks).ForEach(func(_, v []byte) error {
			record, err := decode[taskRecord](v)
			if err != nil {
				return err
			}
			if record.UserID == ownerID {
				records = append(records, record)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt != records[j].CreatedAt {
			return records[i].CreatedAt < records[j].CreatedAt
		}
		return records[i].Seq < records[j].Seq
	})

	tasks := make([]domain.Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, *record.toDomain())
	}
	return tasks, nil
}

func (r *taskRepository) GetOwned(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.View(func(tx *bolt.Tx) error {
		record, err := loadOwned(tx, ownerID, id)
		if err != nil {
			return err
		}
		task = record.toDomain()
		return nil
	})
	return task, err
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := r.db.Update(func(tx *bolt.Tx) error {
		return putNewTask(tx, task)
	}); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, ownerID, id string, mutate repository.TaskMutation) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.Update(func(tx *bolt.Tx) error {
		record, err := loadOwned(tx, ownerID, id)
		if err != nil {
			return err
		}
		task = record.toDomain()
		if err := mutate(task); err != nil {
			return err
		}
		return putTask(tx, newTaskRecord(task, record.Seq))
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if _, err := loadOwned(tx, ownerID, id); err != nil {
			return err
		}
		return tx.Bucket(boltInfra.BucketTasks).Delete([]byte(id))
	})
}

// loadOwned is the ownership check shared by every scoped read and write.
// A task owned by someone else is reported exactly like a missing one.
func loadOwned(tx *bolt.Tx, ownerID, id string) (taskRecord, error) {
	raw := tx.Bucket(boltInfra.BucketTasks).Get([]byte(id))
	if raw == nil {
		return taskRecord{}, domain.ErrTaskNotFound
	}
	record, err := decode[taskRecord](raw)
	if err != nil {
		return taskRecord{}, err
	}
	if !record.toDomain().OwnedBy(ownerID) {
		return taskRecord{}, domain.ErrTaskNotFound
	}
	return record, nil
}

func putNewTask(tx *bolt.Tx, task *domain.Task) error {
	bucket := tx.Bucket(boltInfra.BucketTasks)
	if bucket.Get([]byte(task.ID)) != nil {
		return domain.NewError(domain.ErrCodeConflict, "task id already exists")
	}
	seq, err := bucket.NextSequence()
	if err != nil {
		return err
	}
	return putTask(tx, newTaskRecord(task, seq))
}

func putTask(tx *bolt.Tx, record taskRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return tx.Bucket(boltInfra.BucketTasks).Put([]byte(record.ID), payload)
}
