package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyRecordsMigrations(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_members.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE members(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE members;")},
		"002_plans.sql":   {Data: []byte("CREATE TABLE plans(id TEXT PRIMARY KEY);")},
		"README.md":       {Data: []byte("ignored")},
	}

	if err := Apply(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := countRows(t, db, "schema_migrations"); got != 2 {
		t.Fatalf("schema_migrations rows = %d, want 2", got)
	}
	if !tableExists(t, db, "members") || !tableExists(t, db, "plans") {
		t.Fatal("expected migrated tables to exist")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_members.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE members(id TEXT PRIMARY KEY);")},
	}
	for i := 0; i < 2; i++ {
		if err := Apply(context.Background(), db, migrations); err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
	}
	if got := countRows(t, db, "schema_migrations"); got != 1 {
		t.Fatalf("schema_migrations rows = %d, want 1", got)
	}
}

func TestApplyDoesNotRecordFailedMigration(t *testing.T) {
	db := openInMemoryDB(t)
	bad := fstest.MapFS{
		"001_bad.sql": {Data: []byte("-- +migrate Up\nCREAT TABLE broken(id INT);")},
	}
	if err := Apply(context.Background(), db, bad); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := countRows(t, db, "schema_migrations"); got != 0 {
		t.Fatalf("schema_migrations rows = %d, want 0", got)
	}
}

func TestApplyRejectsNilDB(t *testing.T) {
	if err := Apply(context.Background(), nil, fstest.MapFS{}); err == nil {
		t.Fatal("expected nil db error")
	}
}

func TestUpSection(t *testing.T) {
	content := "-- header\n-- +migrate Up\nCREATE TABLE a(id INT);\n-- +migrate Down\nDROP TABLE a;"
	got := strings.TrimSpace(UpSection(content))
	if got != "CREATE TABLE a(id INT);" {
		t.Fatalf("UpSection = %q", got)
	}
	if UpSection("SELECT 1;") != "SELECT 1;" {
		t.Fatal("expected content without markers to be returned whole")
	}
}

func TestIsAlreadyExists(t *testing.T) {
	if !IsAlreadyExists(errors.New("table members already exists")) {
		t.Fatal("expected already exists match")
	}
	if IsAlreadyExists(errors.New("syntax error")) {
		t.Fatal("expected syntax error not to match")
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int64 {
	t.Helper()
	var count int64
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		t.Fatalf("lookup table %s: %v", table, err)
	}
	return true
}
