package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the audit schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE audit_logs (
			id         TEXT PRIMARY KEY,
			action     TEXT NOT NULL,
			item_id    TEXT,
			source     TEXT NOT NULL,
			details    TEXT,
			created_at TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

func TestRecord_GeneratesIDAndTimestamp(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	entry := &Entry{
		Action: ActionCreate,
		ItemID: "item-1",
		Source: SourceAPI,
	}
	if err := repo.Record(ctx, entry); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if entry.ID == "" {
		t.Error("ID was not generated")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestRecord_WithDetails(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	entry := &Entry{
		Action:  ActionPurge,
		ItemID:  "item-2",
		Source:  SourceSweeper,
		Details: map[string]any{"age_hours": float64(192)},
	}
	if err := repo.Record(ctx, entry); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	result, err := repo.List(ctx, Filter{ItemID: "item-2"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("List() returned %d entries, want 1", len(result.Entries))
	}
	if result.Entries[0].Details["age_hours"] != float64(192) {
		t.Errorf("Details = %v, want age_hours=192", result.Entries[0].Details)
	}
}

func TestList_FiltersAndPagination(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seed := []Entry{
		{Action: ActionCreate, ItemID: "a", Source: SourceAPI, CreatedAt: base},
		{Action: ActionDelete, ItemID: "a", Source: SourceAPI, CreatedAt: base.Add(time.Hour)},
		{Action: ActionCreate, ItemID: "b", Source: SourceAPI, CreatedAt: base.Add(2 * time.Hour)},
		{Action: ActionPurge, ItemID: "b", Source: SourceSweeper, CreatedAt: base.Add(3 * time.Hour)},
	}
	for i := range seed {
		if err := repo.Record(ctx, &seed[i]); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 4 || len(result.Entries) != 4 {
			t.Fatalf("Total = %d, entries = %d, want 4/4", result.Total, len(result.Entries))
		}
		if result.Entries[0].Action != ActionPurge {
			t.Errorf("first entry action = %q, want newest (purge)", result.Entries[0].Action)
		}
	})

	t.Run("filter by action", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{Action: ActionCreate})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 2 {
			t.Errorf("Total = %d, want 2", result.Total)
		}
	})

	t.Run("filter by item", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{ItemID: "a"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 2 {
			t.Errorf("Total = %d, want 2", result.Total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 4 {
			t.Errorf("Total = %d, want 4", result.Total)
		}
		if len(result.Entries) != 2 {
			t.Errorf("entries = %d, want 2", len(result.Entries))
		}
	})

	t.Run("empty result is a slice, not nil", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{ItemID: "nonexistent"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Entries == nil {
			t.Error("Entries is nil, want empty slice")
		}
	})
}
