package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"inventory-recon/core/fault"
	"inventory-recon/core/model"
	"inventory-recon/core/stats"
	"inventory-recon/core/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Stage is the stats stage name of the catalog reader.
const Stage = "catalog"

// Drop reasons recorded by the reader.
const (
	ReasonNotAnObject     = "not_an_object"
	ReasonMissingSKU      = "missing_sku"
	ReasonMissingRequired = "missing_required"
	ReasonMalformedField  = "malformed_field"
	ReasonDuplicateSKU    = "duplicate_sku"
	ReasonShadowedField   = "shadowed_field"
)

// Catalog is the flattened sku reference table.
type Catalog struct {
	// Columns lists the attribute columns (all except sku) in output order.
	Columns []string

	records map[string]model.SkuRecord
}

// NewCatalog builds a catalog from already flattened records. Later records
// replace earlier ones with the same sku.
func NewCatalog(columns []string, records []model.SkuRecord) *Catalog {
	c := &Catalog{Columns: columns, records: make(map[string]model.SkuRecord, len(records))}
	for _, r := range records {
		c.records[r.SKU] = r
	}
	return c
}

// Lookup returns the record for sku.
func (c *Catalog) Lookup(sku string) (model.SkuRecord, bool) {
	r, ok := c.records[sku]
	return r, ok
}

// Len returns the number of distinct skus.
func (c *Catalog) Len() int {
	return len(c.records)
}

// SKUs returns all skus in ascending order.
func (c *Catalog) SKUs() []string {
	return sortedKeys(c.records)
}

// fieldError marks a record-level structural problem.
type fieldError struct {
	reason string
	path   string
	msg    string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.path, e.msg)
}

// ReadFile opens path on fs and reads the catalog from it.
func ReadFile(fs afero.Fs, path string, schema *Schema, c *stats.Collector) (*Catalog, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fault.NewIOError("open file", path, err)
	}
	defer f.Close()

	cat, err := Read(f, schema, c)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return cat, nil
}

// Read decodes a JSON array of nested sku objects and flattens each one with
// the schema. The document itself must be a JSON array; anything else fails
// the read. Individual records that violate the schema are dropped and
// counted. Duplicate skus are resolved last-wins in document order.
func Read(r io.Reader, schema *Schema, c *stats.Collector) (*Catalog, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc []json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog document must be a JSON array: %w", err)
	}

	records := make(map[string]model.SkuRecord, len(doc))

	for i, raw := range doc {
		c.Add(Stage, "records", 1)

		var obj map[string]any
		if err := decodeObject(raw, &obj); err != nil {
			c.Record(Stage, fault.KindParse, ReasonNotAnObject, zap.Int("index", i))
			continue
		}

		rec, err := flatten(obj, schema, c)
		if err != nil {
			var fe *fieldError
			reason := ReasonMalformedField
			if errors.As(err, &fe) {
				reason = fe.reason
			}
			c.Record(Stage, fault.KindParse, reason, zap.Int("index", i), zap.Error(err))
			continue
		}

		if prev, dup := records[rec.SKU]; dup {
			c.Record(Stage, fault.KindDataQuality, ReasonDuplicateSKU,
				zap.String("sku", rec.SKU),
				zap.Int("index", i),
				zap.String("replaced_name", prev.Get("name")),
			)
		}
		records[rec.SKU] = rec
	}

	// Extra columns come from surviving records only.
	extras := make(map[string]struct{})
	for _, rec := range records {
		for name := range rec.Fields {
			if !schema.hasName(name) {
				extras[name] = struct{}{}
			}
		}
	}

	columns := append(schema.AttributeColumns(), sortedKeys(extras)...)
	cat := &Catalog{Columns: columns, records: records}
	c.Add(Stage, "skus", cat.Len())
	return cat, nil
}

func decodeObject(raw json.RawMessage, out *map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if *out == nil {
		return errors.New("null record")
	}
	return nil
}

// flatten applies the declared columns to obj and keeps every undeclared
// scalar leaf under its underscore-joined path.
func flatten(obj map[string]any, schema *Schema, c *stats.Collector) (model.SkuRecord, error) {
	fields := make(map[string]string, len(schema.Columns))

	for _, col := range schema.Columns {
		val, present, err := resolve(obj, col.segments)
		if err != nil {
			return model.SkuRecord{}, &fieldError{reason: ReasonMalformedField, path: col.Path, msg: err.Error()}
		}
		if !present {
			if col.Required {
				reason := ReasonMissingRequired
				if col.Name == KeyColumn {
					reason = ReasonMissingSKU
				}
				return model.SkuRecord{}, &fieldError{reason: reason, path: col.Path, msg: "missing"}
			}
			fields[col.Name] = ""
			continue
		}

		text, err := convert(val, col.Type)
		if err != nil {
			return model.SkuRecord{}, &fieldError{reason: ReasonMalformedField, path: col.Path, msg: err.Error()}
		}
		if col.Required && text == "" {
			reason := ReasonMissingRequired
			if col.Name == KeyColumn {
				reason = ReasonMissingSKU
			}
			return model.SkuRecord{}, &fieldError{reason: reason, path: col.Path, msg: "empty"}
		}
		fields[col.Name] = text
	}

	walkLeaves(obj, nil, func(path []string, val any) {
		dotted := strings.Join(path, ".")
		if schema.declares(dotted) {
			return
		}
		name := strings.Join(path, "_")
		if _, taken := fields[name]; taken || schema.hasName(name) || isReserved(name) {
			c.Add(Stage, ReasonShadowedField, 1)
			c.Logger().Debug("Skipping catalog field shadowed by a declared column", zap.String("path", dotted))
			return
		}
		fields[name] = utils.ToString(val)
	})

	sku := fields[KeyColumn]
	delete(fields, KeyColumn)
	return model.SkuRecord{SKU: sku, Fields: fields}, nil
}

// resolve follows segments through nested objects. A path that crosses a
// non-object value is a structural error; a missing or null leaf is absent.
func resolve(obj map[string]any, segments []string) (any, bool, error) {
	cur := obj
	for i, seg := range segments {
		val, ok := cur[seg]
		if !ok || val == nil {
			return nil, false, nil
		}
		if i == len(segments)-1 {
			return val, true, nil
		}
		next, ok := val.(map[string]any)
		if !ok {
			return nil, false, fmt.Errorf("expected object at %s, got %T", strings.Join(segments[:i+1], "."), val)
		}
		cur = next
	}
	return nil, false, nil
}

func convert(val any, typ ColumnType) (string, error) {
	switch val.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("expected %s, got %T", typ, val)
	}

	switch typ {
	case TypeInt:
		n, ok := utils.ToInt(val)
		if !ok {
			return "", fmt.Errorf("expected int, got %v", val)
		}
		return utils.ToString(n), nil
	case TypeFloat:
		f, ok := utils.ToFloat(val)
		if !ok {
			return "", fmt.Errorf("expected float, got %v", val)
		}
		return utils.FormatFloat(f), nil
	case TypeBool:
		b, ok := utils.ToBool(val)
		if !ok {
			return "", fmt.Errorf("expected bool, got %v", val)
		}
		return utils.ToString(b), nil
	default:
		if _, isBool := val.(bool); isBool {
			return "", fmt.Errorf("expected string, got bool")
		}
		return strings.TrimSpace(utils.ToString(val)), nil
	}
}

// walkLeaves visits scalar leaves in sorted key order. Arrays are skipped.
func walkLeaves(obj map[string]any, prefix []string, visit func(path []string, val any)) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := append(append([]string(nil), prefix...), k)
		switch v := obj[k].(type) {
		case map[string]any:
			walkLeaves(v, path, visit)
		case []any, nil:
		default:
			visit(path, v)
		}
	}
}

func isReserved(name string) bool {
	for _, r := range ReservedColumns {
		if r == name {
			return true
		}
	}
	return false
}
