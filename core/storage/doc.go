// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface covering what a
// batch run needs to publish its outputs: checking and creating the target
// bucket and uploading objects. It works against AWS S3 and self-hosted MinIO.
//
// # Client Interface
//
// The Client interface makes storage interactions mockable in unit tests
// (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, "reports")
package storage
