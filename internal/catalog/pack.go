package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizapp/internal/quiz"
)

//go:embed packs/schema.json
var packSchemaJSON []byte

const packSchemaURL = "schema://quizapp-pack.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// PackError reports a question pack that failed validation.
type PackError struct {
	Stage string // "yaml", "json", "schema", "format", "question"
	Err   error
}

func (e *PackError) Error() string {
	return fmt.Sprintf("invalid question pack (%s): %v", e.Stage, e.Err)
}

func (e *PackError) Unwrap() error {
	return e.Err
}

type packFile struct {
	Format     string         `json:"format"`
	Name       string         `json:"name"`
	Categories []packCategory `json:"categories"`
}

type packCategory struct {
	ID        int            `json:"id"`
	Label     string         `json:"label"`
	Questions []packQuestion `json:"questions"`
}

type packQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

// Parse validates a JSON question pack and builds a Catalog from it.
func Parse(data []byte) (*Catalog, error) {
	// The jsonschema library validates a decoded value, not raw bytes.
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &PackError{Stage: "json", Err: err}
	}

	compiled, err := packSchema()
	if err != nil {
		return nil, &PackError{Stage: "schema", Err: fmt.Errorf("compile: %w", err)}
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, &PackError{Stage: "schema", Err: err}
	}

	var pf packFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, &PackError{Stage: "json", Err: err}
	}

	if !semver.IsValid(pf.Format) {
		return nil, &PackError{Stage: "format", Err: fmt.Errorf("%q is not a semantic version", pf.Format)}
	}
	if semver.Major(pf.Format) != semver.Major(FormatVersion) {
		return nil, &PackError{
			Stage: "format",
			Err:   fmt.Errorf("unsupported format %s, want %s.x", pf.Format, semver.Major(FormatVersion)),
		}
	}

	c := &Catalog{
		name:      pf.Name,
		format:    pf.Format,
		questions: make(map[int][]quiz.Question, len(pf.Categories)),
	}
	for _, pc := range pf.Categories {
		if _, dup := c.questions[pc.ID]; dup {
			return nil, &PackError{Stage: "question", Err: fmt.Errorf("duplicate category id %d", pc.ID)}
		}
		qs := make([]quiz.Question, 0, len(pc.Questions))
		for i, pq := range pc.Questions {
			q, err := quiz.NewQuestion(pq.Text, pq.Options, pq.Answer)
			if err != nil {
				return nil, &PackError{
					Stage: "question",
					Err:   fmt.Errorf("category %d question %d: %w", pc.ID, i+1, err),
				}
			}
			qs = append(qs, q)
		}
		c.categories = append(c.categories, Category{ID: pc.ID, Label: pc.Label})
		c.questions[pc.ID] = qs
	}
	sortCategories(c.categories)

	return c, nil
}

// ParseYAML accepts the same pack document written as YAML. It is
// re-encoded to JSON so both formats go through one validation path.
func ParseYAML(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &PackError{Stage: "yaml", Err: err}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &PackError{Stage: "yaml", Err: err}
	}
	return Parse(raw)
}

// ParseFile picks the decoder from the file extension: .yaml and .yml
// are YAML, anything else is JSON.
func ParseFile(name string, data []byte) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

func packSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(packSchemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(packSchemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(packSchemaURL)
	})
	return schema, schemaErr
}
