// internal/catalog/catalog.go
//
// Word catalog: category → ordered list of questions.
//
// Loading behavior (Load):
//   1. If a path is given (CATALOG_FILE), read the JSON catalog from disk.
//   2. Otherwise use the catalog embedded in the assets package.
//
// Records are normalized (uppercase, single spaces) and validated at load time, so a
// malformed answer never reaches a running session.

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/robalobadob/susunkata/assets"
)

var ErrInvalidRecord = errors.New("invalid catalog record")

var answerPattern = regexp.MustCompile(`^[A-Z]+( [A-Z]+)*$`)

// Question is one catalog record. Answer is uppercase and may contain single spaces.
type Question struct {
	Answer      string `json:"answer"`
	Translation string `json:"translation"`
	Image       string `json:"image"`
	Difficulty  int    `json:"difficulty"`
}

// Category describes a themed word set.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"` // Indonesian name
	Count int    `json:"count"`
}

// Catalog is the read-only data source the game queries.
type Catalog interface {
	Get(category string) ([]Question, bool)
	Categories() []Category
}

// file is the on-disk JSON shape.
type file struct {
	Categories []struct {
		ID        string     `json:"id"`
		Name      string     `json:"name"`
		Label     string     `json:"label"`
		Questions []Question `json:"questions"`
	} `json:"categories"`
}

// Static is an immutable in-memory Catalog.
type Static struct {
	order     []Category
	questions map[string][]Question
}

// Load reads the catalog from path, or the embedded default when path is empty.
func Load(path string) (*Static, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = assets.CatalogJSON()
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON catalog.
func Parse(data []byte) (*Static, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	s := &Static{questions: make(map[string][]Question, len(f.Categories))}
	for _, c := range f.Categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: category without id", ErrInvalidRecord)
		}
		if _, dup := s.questions[id]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidRecord, id)
		}
		qs := make([]Question, 0, len(c.Questions))
		for i, q := range c.Questions {
			q, err := Normalize(q)
			if err != nil {
				return nil, fmt.Errorf("category %s question %d: %w", id, i, err)
			}
			qs = append(qs, q)
		}
		name := c.Name
		if name == "" {
			name = id
		}
		s.order = append(s.order, Category{ID: id, Name: name, Label: c.Label, Count: len(qs)})
		s.questions[id] = qs
	}
	return s, nil
}

// New builds a Static catalog from already constructed questions.
// Category order follows ids.
func New(ids []string, questions map[string][]Question) (*Static, error) {
	s := &Static{questions: make(map[string][]Question, len(ids))}
	for _, id := range ids {
		qs := make([]Question, 0, len(questions[id]))
		for i, q := range questions[id] {
			q, err := Normalize(q)
			if err != nil {
				return nil, fmt.Errorf("category %s question %d: %w", id, i, err)
			}
			qs = append(qs, q)
		}
		s.order = append(s.order, Category{ID: id, Name: id, Count: len(qs)})
		s.questions[id] = qs
	}
	return s, nil
}

// Normalize uppercases the answer, collapses whitespace and validates the record.
// A zero difficulty defaults to 1.
func Normalize(q Question) (Question, error) {
	q.Answer = strings.Join(strings.Fields(strings.ToUpper(q.Answer)), " ")
	if !answerPattern.MatchString(q.Answer) {
		return q, fmt.Errorf("%w: answer %q", ErrInvalidRecord, q.Answer)
	}
	if q.Difficulty == 0 {
		q.Difficulty = 1
	}
	if q.Difficulty < 1 || q.Difficulty > 3 {
		return q, fmt.Errorf("%w: difficulty %d for %q", ErrInvalidRecord, q.Difficulty, q.Answer)
	}
	q.Translation = strings.TrimSpace(q.Translation)
	return q, nil
}

// Get returns a copy of the questions for category.
func (s *Static) Get(category string) ([]Question, bool) {
	qs, ok := s.questions[category]
	if !ok {
		return nil, false
	}
	out := make([]Question, len(qs))
	copy(out, qs)
	return out, true
}

// Categories lists categories in file order.
func (s *Static) Categories() []Category {
	out := make([]Category, len(s.order))
	copy(out, s.order)
	return out
}
