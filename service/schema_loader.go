package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/schemascan/domain"
)

// SchemaFormat is the encoding of a schema snapshot file
type SchemaFormat string

const (
	SchemaFormatJSON SchemaFormat = "json"
	SchemaFormatYAML SchemaFormat = "yaml"
)

// SchemaFormatForPath picks the snapshot encoding from a file extension
func SchemaFormatForPath(path string) SchemaFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SchemaFormatJSON
	default:
		return SchemaFormatYAML
	}
}

// SchemaLoader reads and validates schema snapshots
type SchemaLoader struct {
	validate *validator.Validate
}

// NewSchemaLoader creates a new SchemaLoader
func NewSchemaLoader() *SchemaLoader {
	return &SchemaLoader{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// LoadFile reads a schema snapshot from a JSON or YAML file
func (l *SchemaLoader) LoadFile(path string) (*domain.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewSourceError(fmt.Sprintf("failed to read schema %s", path), err)
	}
	return l.Parse(data, SchemaFormatForPath(path))
}

// Parse decodes and validates a schema snapshot
func (l *SchemaLoader) Parse(data []byte, format SchemaFormat) (*domain.Schema, error) {
	schema := &domain.Schema{}
	var err error
	switch format {
	case SchemaFormatJSON:
		err = json.Unmarshal(data, schema)
	default:
		err = yaml.Unmarshal(data, schema)
	}
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("failed to decode %s schema", format), err)
	}

	if err := l.Validate(schema); err != nil {
		return nil, err
	}
	if schema.Counts == nil {
		schema.Counts = map[string]domain.ContentCount{}
	}
	return schema, nil
}

// Validate checks field shapes and name uniqueness. Dangling references and
// empty entities are valid input and are reported by the audit instead.
func (l *SchemaLoader) Validate(schema *domain.Schema) error {
	if err := l.validate.Struct(schema); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			first := invalid[0]
			return domain.NewInvalidInputError(
				fmt.Sprintf("invalid schema: %s failed on %q", first.Namespace(), first.Tag()), err)
		}
		return domain.NewInvalidInputError("invalid schema", err)
	}

	seen := make(map[string]bool, len(schema.Entities))
	for _, e := range schema.Entities {
		if seen[e.Name] {
			return domain.NewInvalidInputError(fmt.Sprintf("duplicate entity %q", e.Name), nil)
		}
		seen[e.Name] = true

		fields := make(map[string]bool, len(e.Fields))
		for _, f := range e.Fields {
			if fields[f.Name] {
				return domain.NewInvalidInputError(fmt.Sprintf("duplicate field %q in entity %q", f.Name, e.Name), nil)
			}
			fields[f.Name] = true
		}
	}

	enums := make(map[string]bool, len(schema.Enumerations))
	for _, e := range schema.Enumerations {
		if enums[e.Name] {
			return domain.NewInvalidInputError(fmt.Sprintf("duplicate enumeration %q", e.Name), nil)
		}
		enums[e.Name] = true
	}

	for name, count := range schema.Counts {
		if count.Draft < 0 || count.Published < 0 {
			return domain.NewInvalidInputError(fmt.Sprintf("negative content count for %q", name), nil)
		}
	}
	return nil
}

// FileSchemaSource implements domain.SchemaSource over a snapshot file
type FileSchemaSource struct {
	path   string
	loader *SchemaLoader
}

// NewFileSchemaSource creates a schema source reading path
func NewFileSchemaSource(path string) *FileSchemaSource {
	return &FileSchemaSource{path: path, loader: NewSchemaLoader()}
}

// Load reads the snapshot
func (s *FileSchemaSource) Load(ctx context.Context) (*domain.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.loader.LoadFile(s.path)
}
