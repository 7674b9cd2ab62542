package migrations

import (
	"database/sql"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

// openTestDB connects to TEST_DATABASE_URL. The database should be disposable:
// tests drop and recreate the schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("PostgreSQL not available, skipping test: %v", err)
	}

	_, err = db.Exec(`
		DROP TABLE IF EXISTS messages, favorites, cars, users, schema_migrations CASCADE
	`)
	if err != nil {
		db.Close()
		t.Fatalf("failed to reset schema: %v", err)
	}

	return db
}

func TestGetLatestVersion(t *testing.T) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		t.Fatalf("iofs.New() failed: %v", err)
	}
	defer src.Close()

	latest, err := getLatestVersion(src)
	if err != nil {
		t.Fatalf("getLatestVersion() failed: %v", err)
	}
	if latest < 1 {
		t.Errorf("latest version = %d, want >= 1", latest)
	}
}

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tables := []string{"users", "cars", "favorites", "messages", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(`SELECT table_name FROM information_schema.tables WHERE table_name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestCheckDBMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	err := CheckDBMigrationStatus(db)
	if err == nil {
		t.Fatal("CheckDBMigrationStatus() expected error for fresh database, got nil")
	}
	if err.Error() != "database has no schema version (needs migration)" {
		t.Errorf("CheckDBMigrationStatus() error = %q, want error about needing migration", err.Error())
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("First MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("Second MigrateUp() failed: %v (should be idempotent)", err)
	}
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after double migration returned error: %v", err)
	}
}
