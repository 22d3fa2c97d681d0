// Package checks verifies the environment of a run before any data is read:
// the input directories and files, and the upload bucket when uploads are
// enabled.
package checks
