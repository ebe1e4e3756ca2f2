package boltdb

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Bucket names of the file-backed store.
var (
	BucketUsers        = []byte("users")
	BucketUsersByEmail = []byte("users_by_email")
	BucketSessions     = []byte("sessions")
	BucketTasks        = []byte("tasks")
	BucketState        = []byte("state")
)

var buckets = [][]byte{BucketUsers, BucketUsersByEmail, BucketSessions, BucketTasks, BucketState}

// Open initializes the BoltDB file and ensures every bucket exists.
func Open(path string, logger *zap.Logger) (*bolt.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("opened file store", zap.String("path", path))
	return db, nil
}

// Ping verifies the file is open and readable.
func Ping(db *bolt.DB) error {
	if db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(BucketTasks) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}
