package sqlitemigrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;"),
		},
	}
	if err := Apply(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if got := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
	if !tableExists(t, db, "items") {
		t.Fatal("expected migrated table to exist")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);"),
		},
	}
	for i := 0; i < 2; i++ {
		if err := Apply(context.Background(), db, migrations); err != nil {
			t.Fatalf("apply pass %d: %v", i, err)
		}
	}

	if got := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("migration rows after replay = %d, want 1", got)
	}
}

func TestApplyRunsInFilenameOrder(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"0002_add_column.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nALTER TABLE items ADD COLUMN label TEXT;"),
		},
		"0001_init.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);"),
		},
	}
	if err := Apply(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if got := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 2 {
		t.Fatalf("migration rows = %d, want 2", got)
	}
}

func TestApplyDoesNotRecordFailedMigration(t *testing.T) {
	db := openInMemoryDB(t)

	bad := fstest.MapFS{
		"0001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT table things(id INT);"),
		},
	}
	if err := Apply(context.Background(), db, bad); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 0 {
		t.Fatalf("migration rows after failure = %d, want 0", got)
	}

	fixed := fstest.MapFS{
		"0001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE things(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := Apply(context.Background(), db, fixed); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if got := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("migration rows after fix = %d, want 1", got)
	}
}

func TestUpSection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "both markers",
			content: "-- +migrate Up\nCREATE TABLE a(x);\n-- +migrate Down\nDROP TABLE a;",
			want:    "\nCREATE TABLE a(x);\n",
		},
		{
			name:    "up only",
			content: "-- +migrate Up\nCREATE TABLE a(x);",
			want:    "\nCREATE TABLE a(x);",
		},
		{
			name:    "no markers",
			content: "CREATE TABLE a(x);",
			want:    "CREATE TABLE a(x);",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := UpSection(tc.content); got != tc.want {
				t.Fatalf("UpSection = %q, want %q", got, tc.want)
			}
		})
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query int value: %v", err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return false
		}
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
