package boltdb

import (
	"encoding/json"

	"github.com/fastygo/planner/domain"
)

// domain types hide owner and digest from JSON, so the file store keeps its
// own record shapes.
type userRecord struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    string `json:"created_at"`
}

type taskRecord struct {
	Seq       uint64  `json:"seq"`
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Text      string  `json:"text"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Project   string  `json:"project"`
	Date      *string `json:"date"`
	Done      bool    `json:"done"`
	CreatedAt string  `json:"created_at"`
}

func newUserRecord(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func newTaskRecord(t *domain.Task, seq uint64) taskRecord {
	return taskRecord{
		Seq:       seq,
		ID:        t.ID,
		UserID:    t.UserID,
		Text:      t.Text,
		Title:     t.Title,
		Category:  string(t.Category),
		Project:   t.Project,
		Date:      t.Date,
		Done:      t.Done,
		CreatedAt: t.CreatedAt,
	}
}

func (r taskRecord) toDomain() *domain.Task {
	return &domain.Task{
		ID:        r.ID,
		UserID:    r.UserID,
		Text:      r.Text,
		Title:     r.Title,
		Category:  domain.Category(r.Category),
		Project:   r.Project,
		Date:      r.Date,
		Done:      r.Done,
		CreatedAt: r.CreatedAt,
	}
}

func decode[T any](raw []byte) (T, error) {
	var out T
	err := json.Unmarshal(raw, &out)
	return out, err
}
