package sqlite

import (
	"strings"
	"testing"
	"time"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoadParties(t *testing.T) {
	db := newTestDB(t)
	given := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	in := []domain.Party{
		{
			ID:   1,
			Name: "Sharma Textiles",
			Items: []domain.Item{
				{
					InternalID:  "transport-only",
					ID:          "AVR-101",
					Name:        "Kurti",
					Description: "Cotton printed",
					Received:    "500",
					Sizes:       []string{"S:120", "M:180"},
					Allocations: []domain.AllocationEntry{
						{EntryID: "e1", User: domain.User{ID: "7", Name: "Ravi"}, MenuID: "m1", Size: "S:120", Count: 40},
					},
					GivenDate: &given,
				},
			},
		},
		{ID: 2, Name: "Patel Garments", Items: []domain.Item{}},
	}

	if err := db.SaveParties(in); err != nil {
		t.Fatalf("SaveParties() error: %v", err)
	}
	out, err := db.LoadParties()
	if err != nil {
		t.Fatalf("LoadParties() error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("parties = %d, want 2", len(out))
	}

	it := out[0].Items[0]
	if it.ID != "AVR-101" || it.Name != "Kurti" || it.Received != "500" {
		t.Errorf("item round trip: %+v", it)
	}
	if len(it.Sizes) != 2 || it.Sizes[0] != "S:120" {
		t.Errorf("sizes = %v", it.Sizes)
	}
	if len(it.Allocations) != 1 || it.Allocations[0].User.Name != "Ravi" || it.Allocations[0].Count != 40 {
		t.Errorf("allocations = %+v", it.Allocations)
	}
	if it.GivenDate == nil || !it.GivenDate.Equal(given) {
		t.Errorf("given date = %v", it.GivenDate)
	}
	if it.InternalID == "" || it.InternalID == "transport-only" {
		t.Errorf("internal id must be regenerated, got %q", it.InternalID)
	}
}

func TestSaveParties_StripsInternalIDs(t *testing.T) {
	db := newTestDB(t)

	in := []domain.Party{{
		ID:   1,
		Name: "Sharma Textiles",
		Items: []domain.Item{{
			InternalID:  "transport-only",
			ID:          "AVR-101",
			Sizes:       []string{},
			Allocations: []domain.AllocationEntry{},
		}},
	}}
	if err := db.SaveParties(in); err != nil {
		t.Fatalf("SaveParties() error: %v", err)
	}

	var stored string
	if err := db.db.QueryRow(`SELECT item FROM parties WHERE id = 1`).Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stored, "internal_id") || strings.Contains(stored, "transport-only") {
		t.Fatalf("internal id leaked into stored JSON: %s", stored)
	}
	// The caller's slice is untouched.
	if in[0].Items[0].InternalID != "transport-only" {
		t.Fatal("save mutated its input")
	}
}

func TestSaveParties_LastWriterWins(t *testing.T) {
	db := newTestDB(t)

	first := []domain.Party{{ID: 1, Name: "A", Items: []domain.Item{}}}
	second := []domain.Party{
		{ID: 1, Name: "A renamed", Items: []domain.Item{}},
		{ID: 2, Name: "B", Items: []domain.Item{}},
	}

	if err := db.SaveParties(first); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveParties(second); err != nil {
		t.Fatal(err)
	}

	out, err := db.LoadParties()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Name != "A renamed" {
		t.Fatalf("stored state = %+v", out)
	}
	if n, _ := db.CountParties(); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestLoadParties_Empty(t *testing.T) {
	db := newTestDB(t)
	out, err := db.LoadParties()
	if err != nil {
		t.Fatalf("LoadParties() error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("want no parties, got %+v", out)
	}
}

func TestLoadParties_NormalizesNilSlices(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.db.Exec(
		`INSERT INTO parties (id, party_name, item) VALUES (1, 'Legacy', '[{"id":"AVR-9"}]')`,
	); err != nil {
		t.Fatal(err)
	}

	out, err := db.LoadParties()
	if err != nil {
		t.Fatal(err)
	}
	it := out[0].Items[0]
	if it.Sizes == nil || it.Allocations == nil {
		t.Error("legacy rows must come back with empty, not nil, slices")
	}
}

func TestSeedAndLoadUsers(t *testing.T) {
	db := newTestDB(t)

	users := []domain.User{{ID: "1", Name: "user1"}, {ID: "2", Name: "user2"}}
	if err := db.SeedUsers(users); err != nil {
		t.Fatalf("SeedUsers() error: %v", err)
	}

	// Seeding again with a changed name must not clobber the stored row.
	if err := db.SeedUsers([]domain.User{{ID: "1", Name: "other"}}); err != nil {
		t.Fatal(err)
	}

	out, err := db.LoadUsers()
	if err != nil {
		t.Fatalf("LoadUsers() error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("users = %d, want 2", len(out))
	}
	if out[0].Name != "user1" {
		t.Errorf("user 1 = %q, want original name kept", out[0].Name)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveParties([]domain.Party{{ID: 1, Name: "Persisted", Items: []domain.Item{}}}); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()

	out, err := db2.LoadParties()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "Persisted" {
		t.Fatalf("state lost across reopen: %+v", out)
	}
}
