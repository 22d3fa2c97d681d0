package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

//go:embed schema.toml
var defaultSchema []byte

// KeyColumn is the output name of the catalog key.
const KeyColumn = "sku"

// Well-known output columns used by reports.
const (
	ColumnBrandID    = "brand_id"
	ColumnBrandName  = "brand_name"
	ColumnRegionID   = "region_id"
	ColumnRegionName = "region_name"
)

// ReservedColumns are produced by the reconciliation engine and cannot be
// used as catalog column names.
var ReservedColumns = []string{
	"trace_id", "side", "quantity", "order_time", "timestamp",
	"market_price", "price_time", "transaction_value", "year", "quarter", "week",
}

// ColumnType is the declared type of a catalog column.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeBool   ColumnType = "bool"
)

// Column maps one source field path to an output column.
type Column struct {
	Path     string     `toml:"path"`
	Name     string     `toml:"name"`
	Type     ColumnType `toml:"type"`
	Required bool       `toml:"required"`

	segments []string
}

// Schema is the ordered field-path-to-column mapping table.
type Schema struct {
	Columns []Column `toml:"columns"`

	byPath map[string]int
	byName map[string]int
}

// DefaultSchema returns the embedded mapping table.
func DefaultSchema() (*Schema, error) {
	return ParseSchema(defaultSchema)
}

// LoadSchema reads a TOML mapping table from path, or returns the embedded
// default when path is empty.
func LoadSchema(fs afero.Fs, path string) (*Schema, error) {
	if path == "" {
		return DefaultSchema()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes and validates a TOML mapping table. Unknown keys,
// duplicate paths or names, unknown types, reserved names and a missing
// required sku column are all rejected.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog schema: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("catalog schema has unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) validate() error {
	reserved := make(map[string]struct{}, len(ReservedColumns))
	for _, name := range ReservedColumns {
		reserved[name] = struct{}{}
	}

	s.byPath = make(map[string]int, len(s.Columns))
	s.byName = make(map[string]int, len(s.Columns))

	for i := range s.Columns {
		col := &s.Columns[i]
		if col.Path == "" || col.Name == "" {
			return fmt.Errorf("catalog schema column %d: path and name are required", i)
		}
		if col.Type == "" {
			col.Type = TypeString
		}
		switch col.Type {
		case TypeString, TypeInt, TypeFloat, TypeBool:
		default:
			return fmt.Errorf("catalog schema column %s: unknown type %q", col.Name, col.Type)
		}
		if _, ok := reserved[col.Name]; ok {
			return fmt.Errorf("catalog schema column %s: name is reserved", col.Name)
		}
		if _, dup := s.byPath[col.Path]; dup {
			return fmt.Errorf("catalog schema: duplicate path %s", col.Path)
		}
		if _, dup := s.byName[col.Name]; dup {
			return fmt.Errorf("catalog schema: duplicate name %s", col.Name)
		}
		col.segments = strings.Split(col.Path, ".")
		s.byPath[col.Path] = i
		s.byName[col.Name] = i
	}

	key, ok := s.byName[KeyColumn]
	if !ok {
		return fmt.Errorf("catalog schema: no %q column", KeyColumn)
	}
	s.Columns[key].Required = true
	return nil
}

// AttributeColumns returns the declared output names except the key, in order.
func (s *Schema) AttributeColumns() []string {
	names := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		if col.Name != KeyColumn {
			names = append(names, col.Name)
		}
	}
	return names
}

func (s *Schema) declares(path string) bool {
	_, ok := s.byPath[path]
	return ok
}

func (s *Schema) hasName(name string) bool {
	_, ok := s.byName[name]
	return ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
