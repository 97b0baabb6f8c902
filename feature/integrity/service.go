package integrity

import (
	"context"
	"errors"

	"tour-admin/core/storage"
	"tour-admin/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by storage checks when no object storage is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// Service handles integrity checks.
type Service struct {
	client        storage.Client
	bucket        string
	archivePrefix string
	logger        *zap.Logger
	db            *gorm.DB
	catalog       checks.Lister
}

// NewService creates a new integrity service. client and catalog may be nil.
func NewService(client storage.Client, bucket, archivePrefix string, logger *zap.Logger, db *gorm.DB, catalog checks.Lister) *Service {
	return &Service{
		client:        client,
		bucket:        bucket,
		archivePrefix: archivePrefix,
		logger:        logger,
		db:            db,
		catalog:       catalog,
	}
}

// CheckStructure returns the archive folders missing from the bucket.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStructure(ctx, s.client, s.bucket, checks.ArchiveFolders(s.archivePrefix))
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return ErrStorageDisabled
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckSchema compares the tour tables with their models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckCatalog probes the list operation of every category.
func (s *Service) CheckCatalog(ctx context.Context) ([]checks.CatalogReport, error) {
	if s.catalog == nil {
		return nil, errors.New("catalog client is not configured")
	}
	return checks.CheckCatalog(ctx, s.catalog), nil
}
