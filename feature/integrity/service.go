package integrity

import (
	"context"

	"inventory-recon/core/storage"
	"inventory-recon/feature/integrity/checks"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Service handles integrity checks.
type Service struct {
	fs     afero.Fs
	layout checks.Layout
	client storage.Client
	bucket string
	logger *zap.Logger
}

// Report is the combined result of all checks.
type Report struct {
	Missing []checks.Missing `json:"missing"`
	// Fixed lists directories created by a fixing run.
	Fixed []string `json:"fixed,omitempty"`
	// BucketError is set when the upload bucket check failed.
	BucketError string `json:"bucket_error,omitempty"`
}

// OK reports whether every input is present.
func (r *Report) OK() bool {
	return len(r.Missing) == 0
}

// NewService creates a new integrity service. client may be nil when uploads
// are disabled; the bucket check is then skipped.
func NewService(fs afero.Fs, layout checks.Layout, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		fs:     fs,
		layout: layout,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// CheckStructure returns every missing input.
func (s *Service) CheckStructure() []checks.Missing {
	return checks.CheckStructure(s.fs, s.layout)
}

// FixStructure creates the missing directories.
func (s *Service) FixStructure(missing []checks.Missing) error {
	return checks.FixStructure(s.fs, s.logger, missing)
}

// CheckBucket verifies the upload bucket, if any.
func (s *Service) CheckBucket(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return checks.CheckBucket(ctx, s.client, s.bucket)
}

// Run performs all checks. With fix, missing directories are created first
// and the structure is checked again.
func (s *Service) Run(ctx context.Context, fix bool) (*Report, error) {
	report := &Report{Missing: s.CheckStructure()}

	if fix && !report.OK() {
		for _, m := range report.Missing {
			if m.Kind == checks.MissingDir {
				report.Fixed = append(report.Fixed, m.Path)
			}
		}
		if err := s.FixStructure(report.Missing); err != nil {
			return nil, err
		}
		report.Missing = s.CheckStructure()
	}

	if err := s.CheckBucket(ctx); err != nil {
		s.logger.Warn("Upload bucket is not ready", zap.String("bucket", s.bucket), zap.Error(err))
		report.BucketError = err.Error()
	}

	return report, nil
}
