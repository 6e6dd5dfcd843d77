// Package session coordinates one workshop's live state: it owns the
// current store snapshot, funnels every mutation through a single writer,
// and talks to persistence. Handlers read whatever snapshot is current and
// never see a half-applied mutation.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lucky0011198/AVR-GARMENT/internal/daemon"
	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
	"github.com/lucky0011198/AVR-GARMENT/internal/infra/observability"
	"github.com/lucky0011198/AVR-GARMENT/internal/infra/sqlite"
	"github.com/lucky0011198/AVR-GARMENT/internal/ledger"
	"github.com/lucky0011198/AVR-GARMENT/internal/store"
)

// Session is the single-writer coordinator over the snapshot.
type Session struct {
	mu    sync.RWMutex
	snap  store.Snapshot
	users []domain.User
	roles daemon.RolesConfig
	db    *sqlite.DB
}

// New builds a session from the config and an open database. Stored state
// wins over seed data; seed data fills in only on a fresh database.
func New(cfg daemon.Config, db *sqlite.DB) (*Session, error) {
	s := &Session{
		roles: cfg.Roles,
		db:    db,
	}

	seedUsers := make([]domain.User, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		seedUsers = append(seedUsers, domain.User{ID: u.ID, Name: u.Name})
	}
	if err := db.SeedUsers(seedUsers); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	users, err := db.LoadUsers()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	s.users = users

	n, err := db.CountParties()
	if err != nil {
		return nil, fmt.Errorf("count parties: %w", err)
	}
	snap := registriesFromConfig(cfg)
	if n == 0 {
		log.Println("no stored parties, starting from seed data")
		snap.Parties = store.SeedParties()
	} else {
		parties, err := db.LoadParties()
		if err != nil {
			return nil, fmt.Errorf("load parties: %w", err)
		}
		snap.Parties = parties
	}
	s.snap = snap
	s.updateGauges()
	return s, nil
}

func registriesFromConfig(cfg daemon.Config) store.Snapshot {
	var snap store.Snapshot
	for _, v := range cfg.Registry.PartyNames {
		snap = snap.AddOption(store.RegistryPartyNames, v)
	}
	for _, v := range cfg.Registry.ItemNames {
		snap = snap.AddOption(store.RegistryItemNames, v)
	}
	for _, v := range cfg.Registry.ItemIDs {
		snap = snap.AddOption(store.RegistryItemIDs, v)
	}
	return snap
}

// Snapshot returns the current state. Safe to read without further locking
// since snapshots are immutable.
func (s *Session) Snapshot() store.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Users returns the user directory.
func (s *Session) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...)
}

// Columns returns the table columns visible to a role, or nil for unknown
// roles.
func (s *Session) Columns(role domain.Role) []string {
	return s.roles.Columns(role)
}

// Filter returns the filtered view of the current party list.
func (s *Session) Filter(query string) []domain.Party {
	return store.Filter(s.Snapshot().Parties, query)
}

// ─── Mutations ──────────────────────────────────────────────────────────────

// apply swaps in the snapshot produced by fn under the write lock and
// records the mutation.
func (s *Session) apply(op string, fn func(store.Snapshot) store.Snapshot) {
	s.mu.Lock()
	s.snap = fn(s.snap)
	s.mu.Unlock()
	observability.StoreMutations.WithLabelValues(op).Inc()
	s.updateGauges()
}

// applyErr is apply for mutations that can be rejected. On rejection the
// snapshot is left unchanged and the reason is recorded.
func (s *Session) applyErr(op string, fn func(store.Snapshot) (store.Snapshot, error)) error {
	s.mu.Lock()
	next, err := fn(s.snap)
	if err == nil {
		s.snap = next
	}
	s.mu.Unlock()
	if err != nil {
		observability.LedgerRejections.WithLabelValues(observability.RejectionReason(err)).Inc()
		return err
	}
	observability.StoreMutations.WithLabelValues(op).Inc()
	s.updateGauges()
	return nil
}

// UpdateItemField replaces one field on an item. Unknown targets are a
// silent no-op.
func (s *Session) UpdateItemField(partyID int, internalID string, field store.ItemField, value any) {
	s.apply("update_item_field", func(snap store.Snapshot) store.Snapshot {
		return snap.UpdateItemField(partyID, internalID, field, value)
	})
}

// UpdatePartyName renames a party.
func (s *Session) UpdatePartyName(partyID int, name string) {
	s.apply("update_party_name", func(snap store.Snapshot) store.Snapshot {
		return snap.UpdatePartyName(partyID, name)
	})
}

// AddParty appends a new party with one empty item.
func (s *Session) AddParty() {
	s.apply("add_party", store.Snapshot.AddParty)
}

// RemoveParty deletes a party and all its items.
func (s *Session) RemoveParty(partyID int) {
	s.apply("remove_party", func(snap store.Snapshot) store.Snapshot {
		return snap.RemoveParty(partyID)
	})
}

// AddItem appends an empty item to the named party.
func (s *Session) AddItem(partyName string) {
	s.apply("add_item", func(snap store.Snapshot) store.Snapshot {
		return snap.AddItem(partyName)
	})
}

// RemoveItem deletes an item by internal id.
func (s *Session) RemoveItem(partyID int, internalID string) {
	s.apply("remove_item", func(snap store.Snapshot) store.Snapshot {
		return snap.RemoveItem(partyID, internalID)
	})
}

// AddItemSize appends a validated size spec to an item.
func (s *Session) AddItemSize(partyID int, internalID, spec string) error {
	return s.applyErr("add_item_size", func(snap store.Snapshot) (store.Snapshot, error) {
		return snap.AddItemSize(partyID, internalID, spec)
	})
}

// RemoveItemSize deletes a size spec from an item.
func (s *Session) RemoveItemSize(partyID int, internalID, spec string) error {
	return s.applyErr("remove_item_size", func(snap store.Snapshot) (store.Snapshot, error) {
		return snap.RemoveItemSize(partyID, internalID, spec)
	})
}

// AddOption appends a value to a dropdown registry.
func (s *Session) AddOption(kind store.RegistryKind, value string) {
	s.apply("add_option", func(snap store.Snapshot) store.Snapshot {
		return snap.AddOption(kind, value)
	})
}

// RemoveOption deletes a value from a dropdown registry.
func (s *Session) RemoveOption(kind store.RegistryKind, value string) {
	s.apply("remove_option", func(snap store.Snapshot) store.Snapshot {
		return snap.RemoveOption(kind, value)
	})
}

// ─── Ledger Mutations ───────────────────────────────────────────────────────

// AddAllocation validates and appends an allocation entry to an item's
// ledger, returning the committed entry with its assigned id.
func (s *Session) AddAllocation(partyID int, internalID string, entry domain.AllocationEntry) (domain.AllocationEntry, error) {
	var committed domain.AllocationEntry
	err := s.applyErr("ledger_add", func(snap store.Snapshot) (store.Snapshot, error) {
		return snap.WithItem(partyID, internalID, func(it *domain.Item) error {
			l := ledger.ForItem(it)
			if err := l.Add(entry); err != nil {
				return err
			}
			committed = it.Allocations[len(it.Allocations)-1]
			return nil
		})
	})
	if err != nil {
		return domain.AllocationEntry{}, err
	}
	observability.LedgerMutations.WithLabelValues("add").Inc()
	return committed, nil
}

// EditAllocation replaces the entry with the given id, revalidating against
// the ledger with that entry's own contribution excluded.
func (s *Session) EditAllocation(partyID int, internalID, entryID string, entry domain.AllocationEntry) error {
	err := s.applyErr("ledger_edit", func(snap store.Snapshot) (store.Snapshot, error) {
		return snap.WithItem(partyID, internalID, func(it *domain.Item) error {
			return ledger.ForItem(it).EditByID(entryID, entry)
		})
	})
	if err == nil {
		observability.LedgerMutations.WithLabelValues("edit").Inc()
	}
	return err
}

// RemoveAllocation deletes the entry with the given id.
func (s *Session) RemoveAllocation(partyID int, internalID, entryID string) error {
	err := s.applyErr("ledger_remove", func(snap store.Snapshot) (store.Snapshot, error) {
		return snap.WithItem(partyID, internalID, func(it *domain.Item) error {
			return ledger.ForItem(it).RemoveByID(entryID)
		})
	})
	if err == nil {
		observability.LedgerMutations.WithLabelValues("remove").Inc()
	}
	return err
}

// AllocationOptions returns the bucket options for an item, with remaining
// capacity computed against the live ledger. excludeEntryID, when not
// empty, names an entry whose own count should not reduce what it can be
// edited to.
func (s *Session) AllocationOptions(partyID int, internalID, excludeEntryID string) ([]ledger.BucketOption, error) {
	snap := s.Snapshot()
	var opts []ledger.BucketOption
	_, err := snap.WithItem(partyID, internalID, func(it *domain.Item) error {
		l := ledger.ForItem(it)
		exclude := -1
		if excludeEntryID != "" {
			exclude = l.IndexOf(excludeEntryID)
		}
		opts = l.Options(exclude)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opts, nil
}

// ─── Persistence ────────────────────────────────────────────────────────────

// Save writes the current party list to the database. A failed save leaves
// the in-memory state untouched, so the caller can retry.
func (s *Session) Save() error {
	snap := s.Snapshot()
	start := time.Now()
	err := s.db.SaveParties(snap.Parties)
	observability.SaveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.SaveOutcomes.WithLabelValues("error").Inc()
		return fmt.Errorf("save parties: %w", err)
	}
	observability.SaveOutcomes.WithLabelValues("ok").Inc()
	log.Printf("saved %d parties", len(snap.Parties))
	return nil
}

// Reload replaces the in-memory party list with the stored one, discarding
// unsaved edits. Registries are store-local and survive the reload.
func (s *Session) Reload() error {
	parties, err := s.db.LoadParties()
	if err != nil {
		return fmt.Errorf("reload parties: %w", err)
	}
	s.mu.Lock()
	s.snap = s.snap.WithParties(parties)
	s.mu.Unlock()
	s.updateGauges()
	return nil
}

func (s *Session) updateGauges() {
	snap := s.Snapshot()
	items := 0
	for _, p := range snap.Parties {
		items += len(p.Items)
	}
	observability.StoreParties.Set(float64(len(snap.Parties)))
	observability.StoreItems.Set(float64(items))
}
