package domain

import (
	"errors"
	"testing"
	"time"
)

// ─── Size Bucket Tests ──────────────────────────────────────────────────────

func TestParseSizeBucket(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want SizeBucket
	}{
		{"numeric label", "34:10", SizeBucket{Label: "34", Capacity: 10}},
		{"alpha label", "S:200", SizeBucket{Label: "S", Capacity: 200}},
		{"zero capacity", "XL:0", SizeBucket{Label: "XL", Capacity: 0}},
		{"no colon", "34", SizeBucket{Label: "34", Capacity: 0}},
		{"non-numeric capacity", "34:abc", SizeBucket{Label: "34", Capacity: 0}},
		{"negative capacity", "34:-5", SizeBucket{Label: "34", Capacity: 0}},
		{"empty capacity", "34:", SizeBucket{Label: "34", Capacity: 0}},
		{"empty string", "", SizeBucket{Label: "", Capacity: 0}},
		{"extra colon", "34:10:2", SizeBucket{Label: "34", Capacity: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSizeBucket(tt.spec)
			if got != tt.want {
				t.Errorf("ParseSizeBucket(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseSizeSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    SizeBucket
		wantErr bool
	}{
		{"34:10", SizeBucket{Label: "34", Capacity: 10}, false},
		{"S:200", SizeBucket{Label: "S", Capacity: 200}, false},
		{" 34:10 ", SizeBucket{Label: "34", Capacity: 10}, false},
		{"34", SizeBucket{}, true},
		{"34:", SizeBucket{}, true},
		{":10", SizeBucket{}, true},
		{"34:1x", SizeBucket{}, true},
		{"a b:10", SizeBucket{}, true},
		{"", SizeBucket{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseSizeSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSizeSpec(%q) succeeded, want error", tt.spec)
				}
				if !errors.Is(err, ErrInvalidSizeSpec) {
					t.Errorf("error %v does not match ErrInvalidSizeSpec", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSizeSpec(%q): %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParseSizeSpec(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

// ─── Item Tests ─────────────────────────────────────────────────────────────

func TestItem_Bucket(t *testing.T) {
	it := Item{Sizes: []string{"34:10", "36:12", "XL:0"}}

	if b := it.Bucket("36"); b.Capacity != 12 {
		t.Errorf("Bucket(36).Capacity = %d, want 12", b.Capacity)
	}
	if b := it.Bucket("XL"); b.Capacity != 0 {
		t.Errorf("Bucket(XL).Capacity = %d, want 0", b.Capacity)
	}
	// A label missing from the size list is an exhausted bucket, not an error.
	if b := it.Bucket("40"); b.Capacity != 0 || b.Label != "40" {
		t.Errorf("Bucket(40) = %+v, want zero-capacity bucket", b)
	}
}

func TestItem_Clone_Independent(t *testing.T) {
	given := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	orig := Item{
		InternalID:  "i-1",
		ID:          "10001",
		Sizes:       []string{"34:10"},
		Allocations: []AllocationEntry{{User: User{ID: "1", Name: "user1"}, MenuID: "A", Size: "34", Count: 2}},
		GivenDate:   &given,
	}

	c := orig.Clone()
	c.Sizes[0] = "34:99"
	c.Allocations[0].Count = 9
	*c.GivenDate = given.AddDate(0, 0, 1)

	if orig.Sizes[0] != "34:10" {
		t.Error("clone shares Sizes backing array")
	}
	if orig.Allocations[0].Count != 2 {
		t.Error("clone shares Allocations backing array")
	}
	if !orig.GivenDate.Equal(given) {
		t.Error("clone shares GivenDate pointer")
	}
}

func TestCloneParties_Independent(t *testing.T) {
	parties := []Party{{ID: 1, Name: "ABC Textiles", Items: []Item{{InternalID: "a", ID: "10001"}}}}

	c := CloneParties(parties)
	c[0].Name = "changed"
	c[0].Items[0].ID = "changed"

	if parties[0].Name != "ABC Textiles" || parties[0].Items[0].ID != "10001" {
		t.Error("CloneParties returned a shallow copy")
	}
}

// ─── Error Tests ────────────────────────────────────────────────────────────

func TestSentinelErrors(t *testing.T) {
	errs := []struct {
		name string
		err  error
	}{
		{"ErrDuplicateUser", ErrDuplicateUser},
		{"ErrDuplicateMenuID", ErrDuplicateMenuID},
		{"ErrCapacityExceeded", ErrCapacityExceeded},
		{"ErrInvalidCount", ErrInvalidCount},
		{"ErrIndexNotFound", ErrIndexNotFound},
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidSizeSpec", ErrInvalidSizeSpec},
	}

	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("%s is nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s.Error() is empty", tt.name)
			}
		})
	}
}

func TestSizeSpecError_Unwraps(t *testing.T) {
	err := &SizeSpecError{Spec: "bad"}
	if !errors.Is(err, ErrInvalidSizeSpec) {
		t.Error("SizeSpecError should unwrap to ErrInvalidSizeSpec")
	}
}
