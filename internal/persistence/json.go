package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aristath/tasker/internal/scheduler"
)

// documentSchema describes the task document: an object keyed by task name.
// completed may be absent in older files and then means false.
const documentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"required": ["name", "priority", "due_date", "dependencies"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"priority": {"type": "integer"},
			"due_date": {"type": "string"},
			"dependencies": {"type": "array", "items": {"type": "string"}},
			"completed": {"type": "boolean"}
		}
	}
}`

var taskDocumentSchema = jsonschema.MustCompileString("tasks.schema.json", documentSchema)

// DocumentError reports a persisted document that does not match the schema.
type DocumentError struct {
	Path string // File the document was read from
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("invalid task document %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// JSONStore keeps the registry in one JSON document that is read whole and
// rewritten whole.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the file at path. The file need
// not exist yet.
func NewJSONStore(path string) (*JSONStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json store path is empty")
	}
	return &JSONStore{path: path}, nil
}

// Load reads and validates the document. A missing file is an empty registry.
func (s *JSONStore) Load(ctx context.Context) (scheduler.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return scheduler.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return scheduler.Document{}, nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DocumentError{Path: s.path, Err: err}
	}
	if err := taskDocumentSchema.Validate(raw); err != nil {
		return nil, &DocumentError{Path: s.path, Err: err}
	}

	doc := scheduler.Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DocumentError{Path: s.path, Err: err}
	}
	return doc, nil
}

// Save writes doc with 2-space indentation, creating parent directories.
func (s *JSONStore) Save(ctx context.Context, doc scheduler.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task document: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create task document dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write task document: %w", err)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *JSONStore) Close() error {
	return nil
}
