// Package ledger maintains the allocation entries for one item and enforces
// the ledger invariants on every mutation:
//
//  1. Per bucket, allocated counts never exceed the bucket's capacity.
//  2. No two entries share a user id.
//  3. No two entries share a menu id (case-insensitive, trimmed).
//  4. Every entry's count is at least 1.
//
// Validation happens before any state changes: a violating mutation is
// rejected wholesale, so observers never see a partially applied ledger.
// Bucket capacities are re-read from the owning item's current size list on
// every call; nothing here caches them.
package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

// Ledger wraps one item's allocation list. It mutates the item it was built
// for; callers that need snapshot semantics clone the item first.
type Ledger struct {
	item *domain.Item
}

// ForItem returns a ledger over the given item's allocations.
func ForItem(item *domain.Item) Ledger {
	return Ledger{item: item}
}

// Len returns the number of entries.
func (l Ledger) Len() int { return len(l.item.Allocations) }

// Entries returns a copy of the entry list in insertion order.
func (l Ledger) Entries() []domain.AllocationEntry {
	return append([]domain.AllocationEntry(nil), l.item.Allocations...)
}

// ─── Derived Capacity ───────────────────────────────────────────────────────

// RemainingCapacity reports how many pieces of a bucket are still free:
// the bucket's current capacity minus the counts already allocated against
// its label. Entries may record the size as a bare label or as a full spec;
// both resolve to the same bucket. Pass excludeIndex >= 0 to leave one
// entry's own contribution out of the total (used when that entry is being
// edited); pass -1 to count every entry.
func (l Ledger) RemainingCapacity(label string, excludeIndex int) int {
	used := 0
	for i, e := range l.item.Allocations {
		if i == excludeIndex {
			continue
		}
		if domain.ParseSizeBucket(e.Size).Label == label {
			used += e.Count
		}
	}
	return l.item.Bucket(label).Capacity - used
}

// BucketOption describes one bucket as the add/edit dialogs list it.
// Exhausted buckets are included (shown as "out of stock"), never hidden.
type BucketOption struct {
	Spec      string `json:"spec"`
	Label     string `json:"label"`
	Capacity  int    `json:"capacity"`
	Remaining int    `json:"remaining"`
}

// Options lists every bucket in the item's current size list with its
// remaining capacity. excludeIndex behaves as in RemainingCapacity.
func (l Ledger) Options(excludeIndex int) []BucketOption {
	opts := make([]BucketOption, 0, len(l.item.Sizes))
	for _, spec := range l.item.Sizes {
		b := domain.ParseSizeBucket(spec)
		opts = append(opts, BucketOption{
			Spec:      spec,
			Label:     b.Label,
			Capacity:  b.Capacity,
			Remaining: l.RemainingCapacity(b.Label, excludeIndex),
		})
	}
	return opts
}

// ─── Mutations ──────────────────────────────────────────────────────────────

// Add validates entry against the whole ledger and appends it. The menu id
// is trimmed before it is stored. Entries keep insertion order; no mutation
// ever reorders them. A fresh entry id is always assigned: any id on the
// incoming entry is discarded, so callers cannot collide with or forge an
// existing identity.
func (l Ledger) Add(entry domain.AllocationEntry) error {
	entry.MenuID = strings.TrimSpace(entry.MenuID)
	if err := l.validate(entry, -1); err != nil {
		return err
	}
	entry.EntryID = uuid.NewString()
	l.item.Allocations = append(l.item.Allocations, entry)
	return nil
}

// Edit replaces the entry at index after validating the replacement against
// all other entries. The entry under edit is excluded from its own duplicate
// and capacity totals, so it can keep its user, menu id, and size while
// changing its count up to the capacity that would remain without it. The
// stable entry id is preserved across the edit.
func (l Ledger) Edit(index int, entry domain.AllocationEntry) error {
	if index < 0 || index >= len(l.item.Allocations) {
		return fmt.Errorf("%w: index %d of %d entries", domain.ErrIndexNotFound, index, len(l.item.Allocations))
	}
	entry.MenuID = strings.TrimSpace(entry.MenuID)
	if err := l.validate(entry, index); err != nil {
		return err
	}
	entry.EntryID = l.item.Allocations[index].EntryID
	l.item.Allocations[index] = entry
	return nil
}

// Remove deletes the entry at index. Remaining entries keep their relative
// order; capacity figures recompute on the next query since they are derived.
func (l Ledger) Remove(index int) error {
	if index < 0 || index >= len(l.item.Allocations) {
		return fmt.Errorf("%w: index %d of %d entries", domain.ErrIndexNotFound, index, len(l.item.Allocations))
	}
	l.item.Allocations = append(l.item.Allocations[:index], l.item.Allocations[index+1:]...)
	return nil
}

// ─── Stable-ID Lookup ───────────────────────────────────────────────────────
// The positional operations above are the primitives. These helpers resolve
// a stable entry id to a position at the moment of mutation, so callers are
// never tempted to hold an index across unrelated structural changes.

// IndexOf returns the position of the entry with the given id, or -1.
func (l Ledger) IndexOf(entryID string) int {
	for i, e := range l.item.Allocations {
		if e.EntryID == entryID {
			return i
		}
	}
	return -1
}

// EditByID edits the entry with the given stable id.
func (l Ledger) EditByID(entryID string, entry domain.AllocationEntry) error {
	i := l.IndexOf(entryID)
	if i < 0 {
		return fmt.Errorf("%w: entry %s", domain.ErrIndexNotFound, entryID)
	}
	return l.Edit(i, entry)
}

// RemoveByID removes the entry with the given stable id.
func (l Ledger) RemoveByID(entryID string) error {
	i := l.IndexOf(entryID)
	if i < 0 {
		return fmt.Errorf("%w: entry %s", domain.ErrIndexNotFound, entryID)
	}
	return l.Remove(i)
}

// ─── Validation ─────────────────────────────────────────────────────────────

// validate checks every invariant for entry, excluding the entry at
// excludeIndex (the one being replaced) from duplicate and capacity totals.
// It inspects state only; the ledger is untouched when an error comes back.
func (l Ledger) validate(entry domain.AllocationEntry, excludeIndex int) error {
	if entry.Count < 1 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidCount, entry.Count)
	}

	for i, e := range l.item.Allocations {
		if i == excludeIndex {
			continue
		}
		if e.User.ID == entry.User.ID {
			return fmt.Errorf("%w: %s (%s)", domain.ErrDuplicateUser, entry.User.Name, entry.User.ID)
		}
		if strings.EqualFold(e.MenuID, entry.MenuID) {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateMenuID, entry.MenuID)
		}
	}

	label := domain.ParseSizeBucket(entry.Size).Label
	if remaining := l.RemainingCapacity(label, excludeIndex); entry.Count > remaining {
		if remaining < 0 {
			remaining = 0
		}
		return fmt.Errorf("%w: size %s has %d available, requested %d",
			domain.ErrCapacityExceeded, label, remaining, entry.Count)
	}
	return nil
}
