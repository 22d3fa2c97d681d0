// Package utils provides value conversion helpers shared by the readers.
// Conversions are strict: each returns ok=false instead of guessing, so callers
// can count malformed fields rather than silently zeroing them.
package utils
