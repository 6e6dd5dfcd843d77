package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
	"github.com/lucky0011198/AVR-GARMENT/internal/store"
)

// ─── Parties ────────────────────────────────────────────────────────────────

// handleListParties returns the party list, filtered when ?q= is present.
func (s *Server) handleListParties(w http.ResponseWriter, r *http.Request) {
	parties := s.session.Filter(r.URL.Query().Get("q"))
	if parties == nil {
		parties = []domain.Party{}
	}
	writeJSON(w, http.StatusOK, parties)
}

func (s *Server) handleAddParty(w http.ResponseWriter, r *http.Request) {
	s.session.AddParty()
	snap := s.session.Snapshot()
	writeJSON(w, http.StatusCreated, snap.Parties[len(snap.Parties)-1])
}

func (s *Server) handleRemoveParty(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	s.session.RemoveParty(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenameParty(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.session.UpdatePartyName(id, body.Name)
	w.WriteHeader(http.StatusNoContent)
}

// ─── Items ──────────────────────────────────────────────────────────────────

// handleAddItem appends an empty item. The {party} segment holds the
// party's business name here, matching how rows are added from the table.
// The created item comes back so the client learns its internal id; an
// unknown name is the usual silent no-op and returns 204.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "party")
	s.session.AddItem(name)
	snap := s.session.Snapshot()
	for _, p := range snap.Parties {
		if p.Name == name && len(p.Items) > 0 {
			writeJSON(w, http.StatusCreated, p.Items[len(p.Items)-1])
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	s.session.RemoveItem(id, chi.URLParam(r, "item"))
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateItemField replaces one field on an item. Date fields take an
// RFC3339 string or null; everything else takes a string.
func (s *Server) handleUpdateItemField(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	var body struct {
		Field string  `json:"field"`
		Value *string `json:"value"`
	}
	if !decode(w, r, &body) {
		return
	}

	field := store.ItemField(body.Field)
	var value any
	switch field {
	case store.FieldGivenDate, store.FieldCutDate, store.FieldCollectDate:
		if body.Value == nil {
			value = nil
		} else {
			ts, err := time.Parse(time.RFC3339, *body.Value)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("bad date %q: %v", *body.Value, err))
				return
			}
			value = &ts
		}
	default:
		if body.Value == nil {
			writeError(w, http.StatusBadRequest, "value is required")
			return
		}
		value = *body.Value
	}

	s.session.UpdateItemField(id, chi.URLParam(r, "item"), field, value)
	w.WriteHeader(http.StatusNoContent)
}

// ─── Sizes ──────────────────────────────────────────────────────────────────

func (s *Server) handleAddSize(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	var body struct {
		Spec string `json:"spec"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := s.session.AddItemSize(id, chi.URLParam(r, "item"), body.Spec); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveSize(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	if err := s.session.RemoveItemSize(id, chi.URLParam(r, "item"), chi.URLParam(r, "spec")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Allocations ────────────────────────────────────────────────────────────

// handleAllocationOptions returns the size buckets with remaining capacity.
// ?exclude= names an entry whose own count should not reduce the remainder,
// used when an existing row is being edited.
func (s *Server) handleAllocationOptions(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	opts, err := s.session.AllocationOptions(id, chi.URLParam(r, "item"), r.URL.Query().Get("exclude"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleAddAllocation(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	var entry domain.AllocationEntry
	if !decode(w, r, &entry) {
		return
	}
	committed, err := s.session.AddAllocation(id, chi.URLParam(r, "item"), entry)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, committed)
}

func (s *Server) handleEditAllocation(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	var entry domain.AllocationEntry
	if !decode(w, r, &entry) {
		return
	}
	err := s.session.EditAllocation(id, chi.URLParam(r, "item"), chi.URLParam(r, "entry"), entry)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveAllocation(w http.ResponseWriter, r *http.Request) {
	id, ok := partyID(w, r)
	if !ok {
		return
	}
	err := s.session.RemoveAllocation(id, chi.URLParam(r, "item"), chi.URLParam(r, "entry"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Persistence ────────────────────────────────────────────────────────────

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Save(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reload(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// ─── Users, Options, Roles ──────────────────────────────────────────────────

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Users())
}

func (s *Server) handleListOptions(w http.ResponseWriter, r *http.Request) {
	kind, ok := registryKind(w, r)
	if !ok {
		return
	}
	opts := s.session.Snapshot().Options(kind)
	if opts == nil {
		opts = []store.Option{}
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleAddOption(w http.ResponseWriter, r *http.Request) {
	kind, ok := registryKind(w, r)
	if !ok {
		return
	}
	var body struct {
		Value string `json:"value"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.session.AddOption(kind, body.Value)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveOption(w http.ResponseWriter, r *http.Request) {
	kind, ok := registryKind(w, r)
	if !ok {
		return
	}
	s.session.RemoveOption(kind, chi.URLParam(r, "value"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRoleColumns(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(chi.URLParam(r, "role"))
	cols := s.session.Columns(role)
	if cols == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown role %q", role))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"role":    role,
		"columns": cols,
	})
}

// ─── Request Parsing ────────────────────────────────────────────────────────

// partyID parses the {party} segment as an integer id.
func partyID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "party")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad party id %q", raw))
		return 0, false
	}
	return id, true
}

// registryKind parses the {kind} segment.
func registryKind(w http.ResponseWriter, r *http.Request) (store.RegistryKind, bool) {
	kind := store.RegistryKind(chi.URLParam(r, "kind"))
	switch kind {
	case store.RegistryPartyNames, store.RegistryItemNames, store.RegistryItemIDs:
		return kind, true
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("unknown registry %q", kind))
	return "", false
}

// decode reads a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
		return false
	}
	return true
}
