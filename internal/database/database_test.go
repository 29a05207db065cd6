package database

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestMigrateRequiresDSN(t *testing.T) {
	t.Parallel()

	err := Migrate("", zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "db.dsn") {
		t.Fatalf("expected dsn error, got %v", err)
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := embedMigrations.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".sql") {
			t.Fatalf("unexpected migration file %q", e.Name())
		}
	}
}
