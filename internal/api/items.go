package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakmund/jsonvault/internal/audit"
	"github.com/oakmund/jsonvault/internal/item"
)

// handleListItems returns every item keyed by ID.
//
// The result starts from the in-memory snapshot; repository IDs missing from
// the snapshot are read from disk and added. Memory wins on conflict, and a
// fallback hit is never written back into the store.
func (s *Server) handleListItems(w http.ResponseWriter, _ *http.Request) {
	result := s.store.All()

	ids, err := s.repo.ListIDs()
	if err != nil {
		s.logger.Error("listing item files", "error", err)
		writeError(w, http.StatusInternalServerError)
		return
	}

	for _, id := range ids {
		if _, ok := result[id]; ok {
			continue
		}
		v, err := s.repo.Read(id)
		if err != nil {
			// The file may have been purged between list and read, or be
			// unreadable; either way one bad file must not fail the listing.
			s.logger.Warn("reading item file during list", "id", id, "error", err)
			continue
		}
		result[id] = v
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetItem returns a single item, falling back to disk on a memory miss.
// The fallback hit is served directly and NOT cached back into the store.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if v, ok := s.store.Get(id); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}

	v, err := s.repo.Read(id)
	if err != nil {
		if errors.Is(err, item.ErrItemNotFound) || errors.Is(err, item.ErrInvalidID) {
			writeError(w, http.StatusNotFound)
			return
		}
		s.logger.Error("reading item file", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// createResponse is the wire shape of a successful create.
type createResponse struct {
	ID   string     `json:"id"`
	URL  string     `json:"url"`
	Data item.Value `json:"data"`
}

// handleCreateItem stores a new item under a generated ID.
//
// The store is updated before the file write; the two are not atomic, so a
// failed file write leaves the item in memory and reports a 500.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var v item.Value
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	id := item.NewID()
	stamped := item.Stamp(v, time.Now())

	s.store.Put(id, stamped)
	if err := s.repo.Write(id, stamped); err != nil {
		s.logger.Error("writing item file", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError)
		return
	}

	s.recordAudit(r, audit.ActionCreate, id)
	s.publishEvent(id, eventForAction(audit.ActionCreate))

	writeJSON(w, http.StatusCreated, createResponse{
		ID:   id,
		URL:  "/json/" + id,
		Data: stamped,
	})
}

// handleReplaceItem replaces an item's value wholesale.
//
// Existence is decided by the store alone: an item that lives only on disk
// is readable but not replaceable until something re-populates the store.
func (s *Server) handleReplaceItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}

	var v item.Value
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	next := item.CarryCreatedAt(existing, v)

	s.store.Put(id, next)
	if err := s.repo.Write(id, next); err != nil {
		s.logger.Error("writing item file", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError)
		return
	}

	s.recordAudit(r, audit.ActionReplace, id)
	s.publishEvent(id, eventForAction(audit.ActionReplace))

	writeJSON(w, http.StatusOK, next)
}

// handleMergeItem applies a shallow merge of top-level fields.
// Same store-only existence rule as replace.
func (s *Server) handleMergeItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}

	var patch item.Value
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	merged, err := item.Merge(existing, patch)
	if err != nil {
		// Non-object item or patch; nothing to merge fields into.
		writeError(w, http.StatusBadRequest)
		return
	}

	s.store.Put(id, merged)
	if err := s.repo.Write(id, merged); err != nil {
		s.logger.Error("writing item file", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError)
		return
	}

	s.recordAudit(r, audit.ActionMerge, id)
	s.publishEvent(id, eventForAction(audit.ActionMerge))

	writeJSON(w, http.StatusOK, merged)
}

// handleDeleteItem removes an item from both stores.
//
// The store decides existence (same blind spot as replace); the repository
// delete is idempotent, so a file already gone does not fail the request.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, ok := s.store.Get(id); !ok {
		writeError(w, http.StatusNotFound)
		return
	}

	s.store.Delete(id)
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("deleting item file", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError)
		return
	}

	s.recordAudit(r, audit.ActionDelete, id)
	s.publishEvent(id, eventForAction(audit.ActionDelete))

	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
