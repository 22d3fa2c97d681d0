// Package pipeline wires the readers, the reconciliation engine, the report
// generator and the output sink into one batch run.
//
// A run first checks the input layout and fails fast with a *fault.IOError
// naming the first missing path. It then reads every input fully into memory,
// reconciles, computes the reports and only then writes the outputs, each one
// exactly once.
package pipeline
