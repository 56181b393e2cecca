package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestInventory_EmbedsVersionedMigrations(t *testing.T) {
	names, err := fs.Glob(Inventory(), "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) < 4 {
		t.Fatalf("expected at least 4 migrations, got %v", names)
	}

	for _, name := range names {
		data, err := fs.ReadFile(Inventory(), name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		body := string(data)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Errorf("%s: missing goose Up/Down annotations", name)
		}
	}
}

func TestInventory_LedgerConstraints(t *testing.T) {
	data, err := fs.ReadFile(Inventory(), "00001_stock_items.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "CHECK (quantity >= 0)") {
		t.Error("stock_items must reject negative quantities at the storage layer")
	}

	data, err = fs.ReadFile(Inventory(), "00004_audit_entries.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "BEFORE UPDATE OR DELETE ON audit_entries") {
		t.Error("audit_entries must be append-only")
	}
}
