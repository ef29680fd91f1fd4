package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestSchemaVersionNilDatabase(t *testing.T) {
	v, err := SchemaVersion(t.Context(), nil)
	if err != nil || v != 0 {
		t.Fatalf("expected 0, nil; got %d, %v", v, err)
	}
}

func TestEmbeddedMigrationsAreGooseFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, migrationsDir)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one migration")
	}
	for _, e := range entries {
		raw, err := fs.ReadFile(migrationFiles, migrationsDir+"/"+e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		body := string(raw)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s is missing goose Up/Down markers", e.Name())
		}
	}
}
