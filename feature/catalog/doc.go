// Package catalog reads the nested sku reference document and flattens it into
// one row per sku.
//
// The mapping from nested field paths to output columns lives in schema.toml,
// which is embedded and can be overridden at runtime with a file of the same
// shape. Declared columns come first in declaration order; any other scalar
// leaf is kept under its underscore-joined path.
package catalog
