package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"SearchAPI/internal/logger"
	"SearchAPI/internal/query"
)

// entityDoc is the YAML shape of one whitelist file:
//
//	table: products
//	fields:
//	  - name: createdAt
//	    kind: datetime
//	    column: created_at
//	    filterable: true
type entityDoc struct {
	Table  string     `yaml:"table"`
	Fields []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	Column     string `yaml:"column,omitempty"`
	Searchable bool   `yaml:"searchable,omitempty"`
	Filterable bool   `yaml:"filterable,omitempty"`
}

// LoadDir reads every *.yml / *.yaml file of dir; the file stem is the entity name.
func LoadDir(dir string) (*Registry, error) {
	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no whitelist files in %s", dir)
	}
	sort.Strings(files)

	reg := New()
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		e, err := ParseEntity(name, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := reg.Register(e); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		logger.Info("whitelist_loaded", map[string]any{
			"entity": name,
			"table":  e.Table,
			"fields": e.Whitelist.Len(),
		})
	}
	return reg, nil
}

// ParseEntity decodes one whitelist document after checking its keys and kinds.
func ParseEntity(name string, data []byte) (*Entity, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("empty YAML for entity %s", name)
	}
	if err := validateYAMLNode(root.Content[0], "entity"); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	var doc entityDoc
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	fields := make([]query.FieldConfig, 0, len(doc.Fields))
	columns := map[string]string{}
	for _, f := range doc.Fields {
		kind, err := query.ParseKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields = append(fields, query.FieldConfig{
			Name:       f.Name,
			Kind:       kind,
			Searchable: f.Searchable,
			Filterable: f.Filterable,
		})
		if f.Column != "" {
			columns[f.Name] = f.Column
		}
	}
	w, err := query.NewWhitelist(fields...)
	if err != nil {
		return nil, err
	}
	return &Entity{Name: name, Table: doc.Table, Whitelist: w, Columns: columns}, nil
}

// MarshalEntity renders e in the whitelist file format.
func MarshalEntity(e *Entity) ([]byte, error) {
	doc := entityDoc{Table: e.Table}
	for _, f := range e.Whitelist.Fields() {
		doc.Fields = append(doc.Fields, fieldDoc{
			Name:       f.Name,
			Kind:       f.Kind.String(),
			Column:     e.Columns[f.Name],
			Searchable: f.Searchable,
			Filterable: f.Filterable,
		})
	}
	return yaml.Marshal(doc)
}
