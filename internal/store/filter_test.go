package store

import (
	"reflect"
	"testing"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

func filterFixture() []domain.Party {
	return []domain.Party{
		{
			ID:   1,
			Name: "Sharma Textiles",
			Items: []domain.Item{
				{
					InternalID: "a", ID: "AVR-101", Name: "Kurti",
					Description: "Cotton printed",
					Sizes:       []string{"S:120", "M:180"},
					Allocations: []domain.AllocationEntry{
						{EntryID: "e1", User: domain.User{ID: "7", Name: "Ravi Kumar"}, MenuID: "m1", Size: "S:120", Count: 10},
					},
				},
				{
					InternalID: "b", ID: "AVR-102", Name: "Palazzo",
					Sizes:       []string{"L:90"},
					Allocations: []domain.AllocationEntry{},
				},
			},
		},
		{
			ID:   2,
			Name: "Patel Garments",
			Items: []domain.Item{
				{
					InternalID: "c", ID: "AVR-201", Name: "Shirt",
					Received:    "400",
					Sizes:       []string{"40:100"},
					Allocations: []domain.AllocationEntry{},
				},
			},
		},
	}
}

func TestFilter_EmptyQuery(t *testing.T) {
	parties := filterFixture()
	for _, q := range []string{"", "   ", "\t"} {
		got := Filter(parties, q)
		if !reflect.DeepEqual(got, parties) {
			t.Fatalf("query %q: want source unchanged", q)
		}
	}
}

func TestFilter_PartyNameKeepsAllItems(t *testing.T) {
	got := Filter(filterFixture(), "sharma")
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("parties = %+v", got)
	}
	if len(got[0].Items) != 2 {
		t.Fatalf("party-name match must keep every item, got %d", len(got[0].Items))
	}
}

func TestFilter_ItemFields(t *testing.T) {
	cases := []struct {
		query    string
		wantItem string
	}{
		{"avr-102", "b"},
		{"palazzo", "b"},
		{"cotton", "a"},
		{"400", "c"},
		{"40:100", "c"},
		{"l:90", "b"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got := Filter(filterFixture(), tc.query)
			if len(got) != 1 || len(got[0].Items) != 1 {
				t.Fatalf("got %+v", got)
			}
			if got[0].Items[0].InternalID != tc.wantItem {
				t.Fatalf("item = %s, want %s", got[0].Items[0].InternalID, tc.wantItem)
			}
		})
	}
}

func TestFilter_AllocationUserExcludesSiblings(t *testing.T) {
	got := Filter(filterFixture(), "ravi")
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("parties = %+v", got)
	}
	if len(got[0].Items) != 1 || got[0].Items[0].InternalID != "a" {
		t.Fatalf("want only the item holding Ravi's entry, got %+v", got[0].Items)
	}

	byID := Filter(filterFixture(), "7")
	if len(byID) != 1 || byID[0].Items[0].InternalID != "a" {
		t.Fatalf("user-id match: %+v", byID)
	}
}

func TestFilter_NoMatchDropsParty(t *testing.T) {
	if got := Filter(filterFixture(), "zzz"); len(got) != 0 {
		t.Fatalf("want empty result, got %+v", got)
	}
}

func TestFilter_SourceUntouched(t *testing.T) {
	parties := filterFixture()
	Filter(parties, "palazzo")
	if !reflect.DeepEqual(parties, filterFixture()) {
		t.Fatal("filter mutated its input")
	}
}
