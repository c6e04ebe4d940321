package db

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_SQLite(t *testing.T) {
	conn, err := New("sqlite3", filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conn.Close()

	var mode string
	if err := conn.Get(&mode, "PRAGMA journal_mode"); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	if err := Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// a second run is a no-op
	if err := Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}

	for _, table := range []string{"users", "sessions", "tasks"} {
		var n int
		if err := conn.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table); err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New("oracle", "x"); err == nil || !strings.Contains(err.Error(), "unsupported DB driver") {
		t.Errorf("New(oracle) error = %v", err)
	}
	if _, err := New("mysql", "not a dsn"); err == nil || !strings.Contains(err.Error(), "parse mysql dsn") {
		t.Errorf("New(mysql, bad dsn) error = %v", err)
	}
	if err := Migrate(nil, "oracle"); err == nil {
		t.Error("Migrate(oracle) should fail")
	}
}
