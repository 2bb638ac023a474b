package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadMigrations_OrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.sql":          {Data: []byte("SELECT 1;")},
		"002_second.sql":         {Data: []byte("SELECT 1;")},
		"001_initial_schema.sql": {Data: []byte("SELECT 1;")},
		"README.md":              {Data: []byte("ignored")},
	}

	migrations, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "initial_schema", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, 10, migrations[2].Version)
}

func TestLoadMigrations_RejectsBadNames(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{
			name: "no version",
			fsys: fstest.MapFS{"initial.sql": {Data: []byte("SELECT 1;")}},
		},
		{
			name: "duplicate version",
			fsys: fstest.MapFS{
				"001_a.sql": {Data: []byte("SELECT 1;")},
				"001_b.sql": {Data: []byte("SELECT 1;")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMigrations(tt.fsys)
			assert.Error(t, err)
		})
	}
}

func TestMigrator_AppliesOnce(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_create.sql": {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT);")},
		"002_seed.sql":   {Data: []byte("INSERT INTO things (name) VALUES ('a');")},
	}

	m := NewMigrator(db, zap.NewNop())
	require.NoError(t, m.RunMigrationsFS(fsys))
	require.NoError(t, m.RunMigrationsFS(fsys))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM things").Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestMigrator_FailedMigrationRollsBack(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE ok (id INTEGER); THIS IS NOT SQL;")},
	}

	err := NewMigrator(db, zap.NewNop()).RunMigrationsFS(fsys)
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestMigrator_DetectsChangedMigration(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, zap.NewNop())

	require.NoError(t, m.RunMigrationsFS(fstest.MapFS{
		"001_create.sql": {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY);")},
	}))

	err := m.RunMigrationsFS(fstest.MapFS{
		"001_create.sql": {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT);")},
	})
	assert.ErrorIs(t, err, ErrMigrationChanged)
}

func TestMigrator_Version(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, zap.NewNop())
	ctx := context.Background()

	v, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, m.RunMigrationsFS(fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"007_b.sql": {Data: []byte("SELECT 1;")},
	}))

	v, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestNew_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "charge.db")
	db, err := New(Config{Path: path}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping())
}

func TestConfig_DSN(t *testing.T) {
	dsn := Config{Path: "data/x.db", BusyTimeout: 2 * time.Second}.dsn()
	assert.Contains(t, dsn, "file:data/x.db?")
	assert.Contains(t, dsn, "_busy_timeout=2000")
	assert.Contains(t, dsn, "_journal_mode=WAL")
}
