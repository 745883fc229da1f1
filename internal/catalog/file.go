package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/scirap/internal/model"
)

// FileVersion is the catalog file format version written by Marshal
const FileVersion = 1

//go:embed schema.json
var schemaJSON []byte

// File is the on-disk YAML representation of a catalog
type File struct {
	Version int          `yaml:"version" json:"version"`
	Rules   []model.Rule `yaml:"rules" json:"rules"`
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("catalog.schema.json")
})

// Load reads and validates a YAML catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog, checks it against the catalog schema and
// then applies the semantic checks of Validate.
func Parse(data []byte) (*Catalog, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalidCatalog, err)
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decode rules: %v", ErrInvalidCatalog, err)
	}

	return New(f.Rules)
}

// Marshal encodes c as a YAML catalog file
func Marshal(c *Catalog) ([]byte, error) {
	data, err := yaml.Marshal(File{Version: FileVersion, Rules: c.All()})
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return data, nil
}

// validateSchema round-trips the generic YAML value through JSON so the
// validator sees JSON numbers and string-keyed objects.
func validateSchema(raw interface{}) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: encode for schema check: %v", ErrInvalidCatalog, err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: decode for schema check: %v", ErrInvalidCatalog, err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: does not match schema: %v", ErrInvalidCatalog, err)
	}
	return nil
}
