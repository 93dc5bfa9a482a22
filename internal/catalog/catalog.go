// Package catalog holds the quiz categories and the question packs that
// seed the question store.
package catalog

import (
	"context"
	_ "embed"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"

	"github.com/abhisek/quizapp/internal/quiz"
)

// FormatVersion is the pack format this build writes and reads. Packs with
// the same major version are accepted.
const FormatVersion = "v1.0.0"

//go:embed packs/default.json
var defaultPack []byte

// Category is a selectable quiz category.
type Category struct {
	ID    int
	Label string
}

// Entry is a question together with the category it belongs to.
type Entry struct {
	Category int
	Question quiz.Question
}

// Catalog is a parsed, validated question pack.
type Catalog struct {
	name       string
	format     string
	categories []Category
	questions  map[int][]quiz.Question
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the built-in catalog. It panics if the embedded pack is
// invalid, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(defaultPack)
	})
	if defaultErr != nil {
		panic("catalog: embedded pack: " + defaultErr.Error())
	}
	return defaultCat
}

// Name returns the pack name, or "unnamed".
func (c *Catalog) Name() string {
	if c.name == "" {
		return "unnamed"
	}
	return c.name
}

// Format returns the pack format version.
func (c *Catalog) Format() string { return c.format }

// Categories returns the categories sorted by ID.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category looks up a category by ID.
func (c *Catalog) Category(id int) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Label returns the category label, falling back to "Category N".
func (c *Catalog) Label(id int) string {
	if cat, ok := c.Category(id); ok {
		return cat.Label
	}
	return "Category " + strconv.Itoa(id)
}

// Questions returns a copy of the category's questions in pack order.
func (c *Catalog) Questions(id int) []quiz.Question {
	qs := c.questions[id]
	out := make([]quiz.Question, len(qs))
	copy(out, qs)
	return out
}

// Len returns the total number of questions across categories.
func (c *Catalog) Len() int {
	n := 0
	for _, qs := range c.questions {
		n += len(qs)
	}
	return n
}

// All returns every question in category then pack order.
func (c *Catalog) All() []Entry {
	entries := make([]Entry, 0, c.Len())
	for _, cat := range c.categories {
		for _, q := range c.questions[cat.ID] {
			entries = append(entries, Entry{Category: cat.ID, Question: q})
		}
	}
	return entries
}

// Source returns an in-memory question source backed by the catalog.
func (c *Catalog) Source() quiz.QuestionSource {
	return &memorySource{cat: c}
}

type memorySource struct {
	cat *Catalog
}

func (m *memorySource) QuestionsFor(ctx context.Context, category int) ([]quiz.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	qs := m.cat.Questions(category)
	rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return qs, nil
}

func (m *memorySource) CountFor(ctx context.Context, category int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(m.cat.questions[category]), nil
}

func sortCategories(cats []Category) {
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
}
