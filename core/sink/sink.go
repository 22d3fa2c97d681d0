// Package sink persists named tabular record sets as flat CSV files.
//
// Every output of a run is a Table. A Sink receives each table exactly once,
// fully computed; LocalSink writes it atomically to the output directory and
// ObjectSink publishes the same bytes to object storage.
package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"path/filepath"

	"inventory-recon/core/fsutil"
	"inventory-recon/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
)

// Config holds configuration for run outputs.
type Config struct {
	// Dir is the local output directory.
	Dir string `mapstructure:"dir" default:"outputs"`
	// Upload additionally publishes every output to object storage.
	Upload bool `mapstructure:"upload" default:"false"`
	// Prefix is the object key prefix used when uploading.
	Prefix string `mapstructure:"prefix" default:"outputs"`
}

// Table is a named tabular record set.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// FileName returns the flat file name of the table.
func (t Table) FileName() string {
	return t.Name + ".csv"
}

// Encode renders the table as CSV with a header row.
func (t Table) Encode() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return nil, fmt.Errorf("failed to encode %s header: %w", t.Name, err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("table %s row %d has %d fields, header has %d", t.Name, i, len(row), len(t.Header))
		}
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", t.Name, err)
	}
	return buf.Bytes(), nil
}

// Sink accepts a named tabular record set and persists it.
type Sink interface {
	Write(ctx context.Context, table Table) error
}

// LocalSink writes tables as CSV files into a directory.
type LocalSink struct {
	fs  afero.Fs
	dir string
}

// NewLocal creates a sink writing into dir on fs.
func NewLocal(fs afero.Fs, dir string) *LocalSink {
	return &LocalSink{fs: fs, dir: dir}
}

// Write encodes the table and writes it atomically to <dir>/<name>.csv.
func (s *LocalSink) Write(ctx context.Context, table Table) error {
	data, err := table.Encode()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.fs, filepath.Join(s.dir, table.FileName()), data)
}

// ObjectSink uploads tables as CSV objects into a bucket.
type ObjectSink struct {
	client  storage.Client
	bucket  string
	prefix  string
	ensured bool
}

// NewObject creates a sink uploading into bucket under prefix.
func NewObject(client storage.Client, bucket, prefix string) *ObjectSink {
	return &ObjectSink{client: client, bucket: bucket, prefix: prefix}
}

// Write encodes the table and uploads it to <prefix>/<name>.csv, creating the
// bucket on first use if it does not exist.
func (s *ObjectSink) Write(ctx context.Context, table Table) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	data, err := table.Encode()
	if err != nil {
		return err
	}

	key := path.Join(s.prefix, table.FileName())
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *ObjectSink) ensureBucket(ctx context.Context) error {
	if s.ensured {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	s.ensured = true
	return nil
}

// Multi fans each table out to several sinks, stopping at the first error.
type Multi []Sink

// Write writes the table to every sink in order.
func (m Multi) Write(ctx context.Context, table Table) error {
	for _, s := range m {
		if err := s.Write(ctx, table); err != nil {
			return err
		}
	}
	return nil
}
