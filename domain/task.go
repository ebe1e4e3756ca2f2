package domain

import (
	"strings"
	"time"
)

// Category groups tasks on the planner board.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"

	DefaultCategory = CategoryWork
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryWork || c == CategoryPersonal
}

const (
	// TimestampLayout is the ISO-8601 form used for every stored timestamp.
	// It has no zone suffix; all values are UTC.
	TimestampLayout = "2006-01-02T15:04:05.000000"
	// DateLayout is the calendar-date form of Task.Date.
	DateLayout = "2006-01-02"

	titleWords       = 5
	UntitledTaskName = "Untitled"
)

// Task represents a user-owned planner item.
type Task struct {
	ID        string   `json:"id"`
	UserID    string   `json:"-"`
	Text      string   `json:"text"`
	Title     string   `json:"title"`
	Category  Category `json:"category"`
	Project   string   `json:"project"`
	Date      *string  `json:"date"`
	Done      bool     `json:"done"`
	CreatedAt string   `json:"createdAt"`
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID string) bool {
	return t != nil && userID != "" && t.UserID == userID
}

// SetText stores the trimmed body and re-derives the title from it.
func (t *Task) SetText(text string) {
	t.Text = strings.TrimSpace(text)
	t.Title = DeriveTitle(t.Text)
}

// TaskPatch carries the fields of a partial update; nil means "leave as is".
// An empty Date clears the due date.
type TaskPatch struct {
	Text     *string
	Category *Category
	Project  *string
	Date     *string
	Done     *bool
}

// Apply mutates t with the fields present in p.
func (p TaskPatch) Apply(t *Task) {
	if p.Text != nil {
		t.SetText(*p.Text)
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.Date != nil {
		if *p.Date == "" {
			t.Date = nil
		} else {
			date := *p.Date
			t.Date = &date
		}
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
}

// DeriveTitle returns the first five whitespace-separated words of text.
func DeriveTitle(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return UntitledTaskName
	}
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.Join(words, " ")
}

// ValidDate reports whether value is a calendar date in DateLayout.
func ValidDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FillDefaults synthesizes the fields a new task needs and leaves provided
// values alone: id, title from text, category, and creation timestamp.
func (t *Task) FillDefaults(newID func() string, now time.Time) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Title == "" {
		t.Title = DeriveTitle(t.Text)
	}
	if !t.Category.Valid() {
		t.Category = DefaultCategory
	}
	if t.CreatedAt == "" {
		t.CreatedAt = FormatTimestamp(now)
	}
}
