package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

// SeedParties returns the demo party list used on first run, before any
// saved state exists.
func SeedParties() []domain.Party {
	given := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	cut := time.Date(2024, time.January, 18, 0, 0, 0, 0, time.UTC)
	return []domain.Party{
		{
			ID:   1,
			Name: "Sharma Textiles",
			Items: []domain.Item{
				{
					InternalID:  uuid.NewString(),
					ID:          "AVR-101",
					Name:        "Kurti",
					Description: "Cotton printed kurti",
					Received:    "500",
					Cut:         "480",
					Collected:   "450",
					Sizes:       []string{"S:120", "M:180", "L:120", "XL:60"},
					Allocations: []domain.AllocationEntry{},
					GivenDate:   &given,
					CutDate:     &cut,
				},
				{
					InternalID:  uuid.NewString(),
					ID:          "AVR-102",
					Name:        "Palazzo",
					Description: "Rayon palazzo pants",
					Received:    "300",
					Cut:         "300",
					Collected:   "280",
					Sizes:       []string{"M:150", "L:150"},
					Allocations: []domain.AllocationEntry{},
					GivenDate:   &given,
				},
			},
		},
		{
			ID:   2,
			Name: "Patel Garments",
			Items: []domain.Item{
				{
					InternalID:  uuid.NewString(),
					ID:          "AVR-201",
					Name:        "Shirt",
					Description: "Formal full-sleeve shirt",
					Received:    "400",
					Cut:         "390",
					Collected:   "",
					Sizes:       []string{"38:100", "40:150", "42:100", "44:50"},
					Allocations: []domain.AllocationEntry{},
				},
			},
		},
	}
}

