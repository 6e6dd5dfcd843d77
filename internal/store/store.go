// Package store holds the party → item aggregate and the dropdown option
// registries, and derives the filtered view the table renders.
//
// Every mutation is pure: it returns a new snapshot and leaves the receiver
// untouched, so a reader holding an older snapshot always sees a fully
// consistent state. With tens to low hundreds of items, copying beats any
// cache-invalidation scheme.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

// ─── Option Registries ──────────────────────────────────────────────────────

// Option is one selectable value in a dropdown registry.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RegistryKind names one of the three option registries.
type RegistryKind string

const (
	RegistryPartyNames RegistryKind = "party_names"
	RegistryItemNames  RegistryKind = "item_names"
	RegistryItemIDs    RegistryKind = "item_ids"
)

// ─── Snapshot ───────────────────────────────────────────────────────────────

// Snapshot is one immutable state of the aggregate: the full party list plus
// the three store-owned option registries. The zero value is an empty,
// usable snapshot.
type Snapshot struct {
	Parties []domain.Party

	// Append-only-by-value dropdown registries. Removing a value that items
	// still reference is allowed; dangling references simply display the raw
	// value instead of a label.
	PartyNameOptions []Option
	ItemNameOptions  []Option
	ItemIDOptions    []Option
}

// clone deep-copies the snapshot before a mutation.
func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Parties:          domain.CloneParties(s.Parties),
		PartyNameOptions: append([]Option(nil), s.PartyNameOptions...),
		ItemNameOptions:  append([]Option(nil), s.ItemNameOptions...),
		ItemIDOptions:    append([]Option(nil), s.ItemIDOptions...),
	}
}

// WithParties returns a snapshot with the party list replaced (used when
// loading from persistence). Registries carry over unchanged.
func (s Snapshot) WithParties(parties []domain.Party) Snapshot {
	out := s.clone()
	out.Parties = domain.CloneParties(parties)
	return out
}

// findItem locates an item by party id and item internal id within this
// snapshot. Returns nil when either is missing.
func (s *Snapshot) findItem(partyID int, internalID string) *domain.Item {
	for pi := range s.Parties {
		if s.Parties[pi].ID != partyID {
			continue
		}
		for ii := range s.Parties[pi].Items {
			if s.Parties[pi].Items[ii].InternalID == internalID {
				return &s.Parties[pi].Items[ii]
			}
		}
	}
	return nil
}

// ─── Field Updates ──────────────────────────────────────────────────────────

// ItemField names one replaceable field on an item.
type ItemField string

const (
	FieldID          ItemField = "id"
	FieldName        ItemField = "name"
	FieldDescription ItemField = "description"
	FieldReceived    ItemField = "received"
	FieldCut         ItemField = "cut"
	FieldCollected   ItemField = "collected"
	FieldGivenDate   ItemField = "given_date"
	FieldCutDate     ItemField = "cut_date"
	FieldCollectDate ItemField = "collect_date"
)

// UpdateItemField returns a snapshot with one named field replaced on the
// item identified by partyID and internalID. An unknown party, item, or
// field (or a value of the wrong type) leaves the state unchanged. Updates
// racing against a removed row are expected during fast interaction and are
// a silent no-op, not an error.
func (s Snapshot) UpdateItemField(partyID int, internalID string, field ItemField, value any) Snapshot {
	out := s.clone()
	it := out.findItem(partyID, internalID)
	if it == nil || !setItemField(it, field, value) {
		return s
	}
	return out
}

// setItemField writes value into the named field, reporting whether the
// field/value pair was recognized. Scalar fields take strings, date fields
// take *time.Time (nil clears the date).
func setItemField(it *domain.Item, field ItemField, value any) bool {
	switch field {
	case FieldID, FieldName, FieldDescription, FieldReceived, FieldCut, FieldCollected:
		v, ok := value.(string)
		if !ok {
			return false
		}
		switch field {
		case FieldID:
			it.ID = v
		case FieldName:
			it.Name = v
		case FieldDescription:
			it.Description = v
		case FieldReceived:
			it.Received = v
		case FieldCut:
			it.Cut = v
		case FieldCollected:
			it.Collected = v
		}
		return true
	case FieldGivenDate, FieldCutDate, FieldCollectDate:
		var v *time.Time
		switch tv := value.(type) {
		case nil:
		case *time.Time:
			v = tv
		case time.Time:
			v = &tv
		default:
			return false
		}
		switch field {
		case FieldGivenDate:
			it.GivenDate = v
		case FieldCutDate:
			it.CutDate = v
		case FieldCollectDate:
			it.CollectDate = v
		}
		return true
	}
	return false
}

// UpdatePartyName returns a snapshot with the party's name replaced.
// Unknown party id is a silent no-op.
func (s Snapshot) UpdatePartyName(partyID int, name string) Snapshot {
	out := s.clone()
	for i := range out.Parties {
		if out.Parties[i].ID == partyID {
			out.Parties[i].Name = name
			return out
		}
	}
	return s
}

// ─── Size List Ops ──────────────────────────────────────────────────────────

// AddItemSize appends a size spec to an item's size list. The spec must be
// well-formed ("<label>:<capacity>") and not already present
// (case-insensitive); malformed specs are refused here rather than being
// carried around as silently exhausted buckets.
func (s Snapshot) AddItemSize(partyID int, internalID, spec string) (Snapshot, error) {
	spec = strings.TrimSpace(spec)
	bucket, err := domain.ParseSizeSpec(spec)
	if err != nil {
		return s, err
	}

	out := s.clone()
	it := out.findItem(partyID, internalID)
	if it == nil {
		return s, fmt.Errorf("%w: item %s in party %d", domain.ErrNotFound, internalID, partyID)
	}
	// Duplicates are detected by label, not by the full spec: a second
	// capacity for an existing label would be shadowed by the first in
	// every bucket lookup.
	for _, existing := range it.Sizes {
		if strings.EqualFold(domain.ParseSizeBucket(strings.TrimSpace(existing)).Label, bucket.Label) {
			return s, fmt.Errorf("%w: %q", domain.ErrDuplicateSize, spec)
		}
	}
	it.Sizes = append(it.Sizes, spec)
	return out, nil
}

// RemoveItemSize deletes a size spec from an item's size list. Entries that
// reference the removed bucket stay in the ledger and become permanently
// over-capacity.
func (s Snapshot) RemoveItemSize(partyID int, internalID, spec string) (Snapshot, error) {
	out := s.clone()
	it := out.findItem(partyID, internalID)
	if it == nil {
		return s, fmt.Errorf("%w: item %s in party %d", domain.ErrNotFound, internalID, partyID)
	}
	for i, existing := range it.Sizes {
		if existing == spec {
			it.Sizes = append(it.Sizes[:i], it.Sizes[i+1:]...)
			return out, nil
		}
	}
	return s, fmt.Errorf("%w: size %q", domain.ErrNotFound, spec)
}

// ─── Ledger Access ──────────────────────────────────────────────────────────

// WithItem clones the snapshot, locates the item, and runs fn against the
// clone's copy. When fn fails the original snapshot is returned untouched,
// so a rejected ledger mutation never leaks a partial state.
func (s Snapshot) WithItem(partyID int, internalID string, fn func(*domain.Item) error) (Snapshot, error) {
	out := s.clone()
	it := out.findItem(partyID, internalID)
	if it == nil {
		return s, fmt.Errorf("%w: item %s in party %d", domain.ErrNotFound, internalID, partyID)
	}
	if err := fn(it); err != nil {
		return s, err
	}
	return out, nil
}

// ─── Structural Item Ops ────────────────────────────────────────────────────

// AddItem appends a new empty item (fresh internal id, empty ledger) to the
// party with the given business name. Unknown name is a silent no-op.
func (s Snapshot) AddItem(partyName string) Snapshot {
	out := s.clone()
	for i := range out.Parties {
		if out.Parties[i].Name == partyName {
			out.Parties[i].Items = append(out.Parties[i].Items, emptyItem())
			return out
		}
	}
	return s
}

// RemoveItem deletes the item with the given internal id from the party.
// Unknown party or item is a silent no-op.
func (s Snapshot) RemoveItem(partyID int, internalID string) Snapshot {
	out := s.clone()
	for pi := range out.Parties {
		if out.Parties[pi].ID != partyID {
			continue
		}
		items := out.Parties[pi].Items
		for ii := range items {
			if items[ii].InternalID == internalID {
				out.Parties[pi].Items = append(items[:ii], items[ii+1:]...)
				return out
			}
		}
	}
	return s
}

// ─── Structural Party Ops ───────────────────────────────────────────────────

// AddParty appends a new party with the next integer id (max existing + 1,
// or 1 when the list is empty) and one empty item.
func (s Snapshot) AddParty() Snapshot {
	out := s.clone()
	nextID := 1
	for _, p := range out.Parties {
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}
	out.Parties = append(out.Parties, domain.Party{
		ID:    nextID,
		Items: []domain.Item{emptyItem()},
	})
	return out
}

// RemoveParty deletes a party and, with it, all its items and their ledgers.
// Unknown id is a silent no-op.
func (s Snapshot) RemoveParty(partyID int) Snapshot {
	out := s.clone()
	for i := range out.Parties {
		if out.Parties[i].ID == partyID {
			out.Parties = append(out.Parties[:i], out.Parties[i+1:]...)
			return out
		}
	}
	return s
}

func emptyItem() domain.Item {
	return domain.Item{
		InternalID:  uuid.NewString(),
		Sizes:       []string{},
		Allocations: []domain.AllocationEntry{},
	}
}

// ─── Registry Ops ───────────────────────────────────────────────────────────

// Options returns the registry of the given kind (nil for unknown kinds).
func (s Snapshot) Options(kind RegistryKind) []Option {
	switch kind {
	case RegistryPartyNames:
		return s.PartyNameOptions
	case RegistryItemNames:
		return s.ItemNameOptions
	case RegistryItemIDs:
		return s.ItemIDOptions
	}
	return nil
}

// AddOption appends value to the named registry unless it is already there.
func (s Snapshot) AddOption(kind RegistryKind, value string) Snapshot {
	existing := s.Options(kind)
	for _, opt := range existing {
		if opt.Value == value {
			return s
		}
	}
	out := s.clone()
	out.setOptions(kind, append(out.Options(kind), Option{Value: value, Label: value}))
	return out
}

// RemoveOption deletes value from the named registry. Items referencing the
// value are not touched; they keep displaying the raw value.
func (s Snapshot) RemoveOption(kind RegistryKind, value string) Snapshot {
	existing := s.Options(kind)
	for i, opt := range existing {
		if opt.Value == value {
			out := s.clone()
			opts := out.Options(kind)
			out.setOptions(kind, append(opts[:i:i], opts[i+1:]...))
			return out
		}
	}
	return s
}

func (s *Snapshot) setOptions(kind RegistryKind, opts []Option) {
	switch kind {
	case RegistryPartyNames:
		s.PartyNameOptions = opts
	case RegistryItemNames:
		s.ItemNameOptions = opts
	case RegistryItemIDs:
		s.ItemIDOptions = opts
	}
}
