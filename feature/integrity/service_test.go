package integrity

import (
	"context"
	"testing"

	"tour-admin/core/storage/mocks"
	"tour-admin/feature/tour/models"
	"tour-admin/feature/tour/tourapi"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

type fakeLister struct{}

func (fakeLister) List(_ context.Context, _ models.Category, _, _ int) (*tourapi.ListPage, error) {
	return &tourapi.ListPage{TotalCount: 42}, nil
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	logger := zap.NewNop()
	svc := NewService(mockClient, "test-bucket", "archive/orphans", logger, nil, nil)

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)

		ch := make(chan minio.ObjectInfo)
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Contains(t, missing, "archive/orphans/spot")
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"archive/orphans/spot"})
		assert.NoError(t, err)
	})
}

func TestService_StorageDisabled(t *testing.T) {
	svc := NewService(nil, "", "", zap.NewNop(), nil, nil)

	_, err := svc.CheckStructure(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, svc.FixStructure(context.Background(), []string{"x"}), ErrStorageDisabled)

	_, err = svc.CheckCatalog(context.Background())
	assert.Error(t, err)
}

func TestService_Catalog(t *testing.T) {
	svc := NewService(nil, "", "", zap.NewNop(), nil, fakeLister{})

	reports, err := svc.CheckCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, reports, len(models.Categories()))
	assert.Equal(t, 42, reports[0].TotalCount)
}

func TestService_Schema(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	svc := NewService(nil, "", "", zap.NewNop(), db, nil)

	sqlMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"Field"}).AddRow("id"))
	sqlMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"Field"}).AddRow("id"))

	report, err := svc.CheckSchema()
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Len(t, report.Tables, 2)
}
