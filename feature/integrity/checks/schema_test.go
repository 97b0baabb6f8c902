package checks

import (
	"context"
	"regexp"
	"testing"

	"tour-admin/core/database"
	"tour-admin/feature/tour/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

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

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_Migrated(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.New(db).Migrate(context.Background()))

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "ok", report.Tables["tour_spots"].Status)
	assert.Equal(t, "ok", report.Tables["tour_events"].Status)
}

func TestCheckSchema_EmptyDatabase(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Contains(t, report.Tables["tour_spots"].MissingColumns, "content_id")
	assert.Contains(t, report.Tables["tour_events"].MissingColumns, "event_start_date")
}

func TestCheckSchema_MissingColumnsAndInspectError(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment").
		AddRow("content_id", "varchar(32)", "NO", "", nil, "")
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `tour_spots`")).WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `tour_events`")).WillReturnError(assert.AnError)

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)

	spots := report.Tables["tour_spots"]
	assert.Equal(t, "error", spots.Status)
	assert.Contains(t, spots.MissingColumns, "overview")
	assert.NotContains(t, spots.MissingColumns, "content_id")

	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "tour_events")
	assert.NoError(t, mock.ExpectationsWereMet())
}
