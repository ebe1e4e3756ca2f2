package legacy

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/fastygo/planner/domain"
)

// record is one task of the pre-database tasks.json.
type record struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Project   string  `json:"project"`
	Date      *string `json:"date"`
	Done      bool    `json:"done"`
	CreatedAt string  `json:"createdAt"`
}

type wrapped struct {
	Tasks []json.RawMessage `json:"tasks"`
}

var errUnsupportedShape = errors.New("legacy file is neither a list nor an object with tasks")

// readFile loads path and returns the raw records it holds. A missing file is
// not an error and yields no records.
func readFile(path string) ([]json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return parse(raw)
}

func parse(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var doc wrapped
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return doc.Tasks, nil
	default:
		return nil, errUnsupportedShape
	}
}

// toTask keeps provided values verbatim; FillDefaults later supplies the rest.
func (r record) toTask() domain.Task {
	task := domain.Task{
		ID:        strings.TrimSpace(r.ID),
		Text:      strings.TrimSpace(r.Text),
		Title:     r.Title,
		Category:  domain.Category(r.Category),
		Project:   r.Project,
		Done:      r.Done,
		CreatedAt: r.CreatedAt,
	}
	if r.Date != nil && *r.Date != "" {
		date := *r.Date
		task.Date = &date
	}
	return task
}
