// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client; the admin uses it to archive orphaned tour records
// as JSON before an operator-confirmed delete, so enrichment text removed from the
// database can still be recovered. Both AWS S3 and self-hosted MinIO are supported.
//
// The Client interface can be mocked for unit tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.PutJSON(ctx, client, cfg.Storage.Bucket, "archive/orphans/spot/1700000000.json", orphans)
package storage
