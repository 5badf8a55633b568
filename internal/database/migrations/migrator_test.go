package migrations

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "m.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestRunAppliesInOrderOnce(t *testing.T) {
	db := openDB(t)

	fsys := fstest.MapFS{
		"sql/0002_insert.sql": {Data: []byte("INSERT INTO things (name) VALUES ('a');")},
		"sql/0001_create.sql": {Data: []byte("CREATE TABLE things (name TEXT);")},
		"sql/readme.txt":      {Data: []byte("ignored")},
	}

	m := New()
	require.NoError(t, m.LoadSQL(fsys, "sql"))

	pending, err := m.Pending(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create", "0002_insert"}, pending)

	require.NoError(t, m.Run(db))
	require.NoError(t, m.Run(db), "second run is a no-op")

	var count int64
	require.NoError(t, db.Table("things").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	pending, err = m.Pending(db)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRunStopsOnFailure(t *testing.T) {
	db := openDB(t)

	m := New()
	m.Register("0001_broken", func(tx *gorm.DB) error {
		return tx.Exec("NOT VALID SQL").Error
	})

	err := m.Run(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_broken")

	pending, err := m.Pending(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_broken"}, pending)
}

func TestBundledFilesLoad(t *testing.T) {
	m := New()
	require.NoError(t, m.LoadSQL(Files, "sql"))
	assert.Contains(t, m.migrations, "0001_foods_name_lower")
}
