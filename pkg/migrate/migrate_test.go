package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	if err := ValidateDir(EmbeddedDir); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
}

func TestCateringRequestsMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_catering_requests.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no catering_requests migration file found")
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS catering_requests",
		"grand_total NUMERIC(12,2)",
		"CREATE INDEX IF NOT EXISTS idx_catering_requests_status_created",
		"DROP TABLE IF EXISTS catering_requests",
	} {
		if !strings.Contains(string(data), sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRunAppliesEmbeddedMigrationsOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrate.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	if err := Run(ctx, sqlDB, "sqlite", EmbeddedDir, "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}
	if !conn.Migrator().HasTable("catering_requests") {
		t.Fatalf("expected catering_requests table after up")
	}
	if err := MigrateToVersion(ctx, sqlDB, "sqlite", EmbeddedDir, "0"); err != nil {
		t.Fatalf("migrate to 0: %v", err)
	}
	if conn.Migrator().HasTable("catering_requests") {
		t.Fatalf("expected catering_requests table dropped after down-to 0")
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected invalid filename to be rejected")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Contact Kind")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_contact_kind.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if Dialect("sqlite") != "sqlite3" || Dialect("postgres") != "postgres" {
		t.Fatalf("unexpected dialect mapping")
	}
}

func TestValidateDirRejectsUnbalancedStatements(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n"
	if err := os.WriteFile(filepath.Join(dir, "20260301120000_half_open.sql"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil || !strings.Contains(err.Error(), "unbalanced") {
		t.Fatalf("expected unbalanced statement error, got %v", err)
	}
}

func TestCreateSQLMigrationRejectsEmptySlug(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), " -- "); err == nil {
		t.Fatal("expected punctuation-only name to fail")
	}
}
