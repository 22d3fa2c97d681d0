// Package integrity provides pre-run health checks.
//
// # Checks Provided
//
//   - Structure: Checks that the log directory, the catalog file and the price
//     directory exist and that each directory has at least one matching file.
//     Missing directories can be created with fix.
//   - Bucket: When uploads are enabled, verifies that the upload bucket exists.
//     A missing bucket is only a warning since uploads create it on first use.
package integrity
