// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the application; it depends on nothing.
package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ─── Role Types ─────────────────────────────────────────────────────────────

// Role identifies which workshop role a session operates under.
// Roles gate column visibility in the UI layer only; no operation in this
// package inspects them.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCutting     Role = "cutting"
	RoleDistributor Role = "distributor"
)

// ─── User Types ─────────────────────────────────────────────────────────────

// User is a worker from the user directory that items can be allocated to.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ─── Size Buckets ───────────────────────────────────────────────────────────

// SizeBucket is a named capacity slot an item's stock is divided into,
// parsed from the compact "<label>:<capacity>" encoding (e.g. "34:10",
// "S:200"). Buckets are immutable once parsed; they live only as long as
// the size string that produced them.
type SizeBucket struct {
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
}

// sizeSpecRe matches a well-formed size spec: alphanumeric label, colon,
// non-negative integer capacity.
var sizeSpecRe = regexp.MustCompile(`^[A-Za-z0-9]+:\d+$`)

// ParseSizeBucket parses a size spec leniently. It never fails: malformed
// input degrades to capacity 0, with the label taken from the text before
// the first ':' (or the whole string when no ':' is present). Callers must
// treat capacity-0 buckets as immediately exhausted.
func ParseSizeBucket(spec string) SizeBucket {
	label, rest, found := strings.Cut(spec, ":")
	if !found {
		return SizeBucket{Label: spec}
	}
	capacity, err := strconv.Atoi(rest)
	if err != nil || capacity < 0 {
		capacity = 0
	}
	return SizeBucket{Label: label, Capacity: capacity}
}

// ParseSizeSpec parses a size spec strictly. Unlike ParseSizeBucket it
// rejects malformed input instead of degrading it, so new specs can be
// refused at the point they are added to an item's size list.
func ParseSizeSpec(spec string) (SizeBucket, error) {
	spec = strings.TrimSpace(spec)
	if !sizeSpecRe.MatchString(spec) {
		return SizeBucket{}, &SizeSpecError{Spec: spec}
	}
	return ParseSizeBucket(spec), nil
}

// ─── Allocation Entries ─────────────────────────────────────────────────────

// AllocationEntry assigns a count of one size bucket to one user under a
// unique menu label. Entries are ordered by insertion and exclusively owned
// by the item whose ledger contains them.
//
// EntryID is an opaque identity assigned when the entry is created. The
// ledger's mutation primitives are positional; the id exists so callers can
// re-resolve a position after unrelated structural changes instead of
// holding on to a stale index.
type AllocationEntry struct {
	EntryID string `json:"entry_id"`
	User    User   `json:"user"`
	MenuID  string `json:"menu_id"`
	Size    string `json:"size"`
	Count   int    `json:"count"`
}

// ─── Items ──────────────────────────────────────────────────────────────────

// Item is one order line: a garment type with cloth quantities, dates, size
// buckets, and an allocation ledger.
//
// InternalID is assigned once at creation and never reused; it is the stable
// key for field updates, independent of the mutable business ID, and clients
// address items by it. It is not persisted: the persistence layer clears it
// before serializing and the store regenerates it on load.
type Item struct {
	InternalID  string            `json:"internal_id,omitempty"`
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Received    string            `json:"received"`
	Cut         string            `json:"cut"`
	Collected   string            `json:"collected"`
	Sizes       []string          `json:"sizes"`
	Allocations []AllocationEntry `json:"allocations"`
	GivenDate   *time.Time        `json:"given_date,omitempty"`
	CutDate     *time.Time        `json:"cut_date,omitempty"`
	CollectDate *time.Time        `json:"collect_date,omitempty"`
}

// Buckets parses the item's current size list. Capacities are always derived
// from the live size strings, never cached, so an edit to Sizes is visible
// to the very next allocation check.
func (it *Item) Buckets() []SizeBucket {
	buckets := make([]SizeBucket, 0, len(it.Sizes))
	for _, spec := range it.Sizes {
		buckets = append(buckets, ParseSizeBucket(spec))
	}
	return buckets
}

// Bucket looks up the bucket for a label in the item's current size list.
// A label that no longer appears has capacity 0.
func (it *Item) Bucket(label string) SizeBucket {
	for _, spec := range it.Sizes {
		if b := ParseSizeBucket(spec); b.Label == label {
			return b
		}
	}
	return SizeBucket{Label: label}
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	out.Sizes = append([]string(nil), it.Sizes...)
	out.Allocations = append([]AllocationEntry(nil), it.Allocations...)
	out.GivenDate = cloneTime(it.GivenDate)
	out.CutDate = cloneTime(it.CutDate)
	out.CollectDate = cloneTime(it.CollectDate)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// ─── Parties ────────────────────────────────────────────────────────────────

// Party is a customer account owning an ordered sequence of items.
type Party struct {
	ID    int    `json:"id"`
	Name  string `json:"party_name"`
	Items []Item `json:"items"`
}

// Clone returns a deep copy of the party and its items.
func (p Party) Clone() Party {
	out := p
	out.Items = make([]Item, len(p.Items))
	for i, it := range p.Items {
		out.Items[i] = it.Clone()
	}
	return out
}

// CloneParties deep-copies a full party list.
func CloneParties(parties []Party) []Party {
	out := make([]Party, len(parties))
	for i, p := range parties {
		out[i] = p.Clone()
	}
	return out
}
