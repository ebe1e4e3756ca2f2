package boltdb

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/planner/domain"
	boltInfra "github.com/fastygo/planner/internal/infrastructure/boltdb"
	"github.com/fastygo/planner/repository"
)

type userRepository struct {
	db *bolt.DB
}

// NewUserRepository stores users in the bbolt file.
func NewUserRepository(db *bolt.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		user, err = getUser(tx, id)
		return err
	})
	return user, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := r.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(boltInfra.BucketUsersByEmail).Get([]byte(domain.NormalizeEmail(email)))
		if id == nil {
			return domain.ErrUserNotFound
		}
		var err error
		user, err = getUser(tx, string(id))
		return err
	})
	return user, err
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return putUser(tx, user)
	})
}

func getUser(tx *bolt.Tx, id string) (*domain.User, error) {
	raw := tx.Bucket(boltInfra.BucketUsers).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrUserNotFound
	}
	record, err := decode[userRecord](raw)
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func putUser(tx *bolt.Tx, user *domain.User) error {
	byEmail := tx.Bucket(boltInfra.BucketUsersByEmail)
	email := []byte(user.Email)
	if byEmail.Get(email) != nil {
		return domain.ErrEmailTaken
	}
	payload, err := json.Marshal(newUserRecord(user))
	if err != nil {
		return err
	}
	if err := tx.Bucket(boltInfra.BucketUsers).Put([]byte(user.ID), payload); err != nil {
		return err
	}
	return byEmail.Put(email, []byte(user.ID))
}
