package api

import (
	"net/http"
	"strconv"

	"github.com/oakmund/jsonvault/internal/audit"
	"github.com/oakmund/jsonvault/internal/infrastructure/mqtt"
)

// handleListAudit returns audit trail entries, most recent first.
//
// Query parameters:
//   - action: filter by action (create, replace, merge, delete, purge)
//   - item_id: filter by item ID
//   - limit: page size (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{
		Action: r.URL.Query().Get("action"),
		ItemID: r.URL.Query().Get("item_id"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit entries", "error", err)
		writeError(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// recordAudit writes one audit entry for a completed mutation.
// A failed write is logged; it never fails the request that triggered it.
func (s *Server) recordAudit(r *http.Request, action, itemID string) {
	entry := &audit.Entry{
		Action: action,
		ItemID: itemID,
		Source: audit.SourceAPI,
	}
	if requestID, ok := r.Context().Value(ctxKeyRequestID).(string); ok {
		entry.Details = map[string]any{"request_id": requestID}
	}

	if err := s.audit.Record(r.Context(), entry); err != nil {
		s.logger.Warn("recording audit entry", "action", action, "id", itemID, "error", err)
	}
}

// publishEvent emits an item lifecycle event when MQTT is wired up.
func (s *Server) publishEvent(id, event string) {
	if s.events == nil {
		return
	}
	s.events.PublishItemEvent(id, event)
}

// eventForAction maps an audit action to its MQTT event name.
func eventForAction(action string) string {
	switch action {
	case audit.ActionCreate:
		return mqtt.EventCreated
	case audit.ActionReplace:
		return mqtt.EventReplaced
	case audit.ActionMerge:
		return mqtt.EventMerged
	case audit.ActionDelete:
		return mqtt.EventDeleted
	default:
		return mqtt.EventPurged
	}
}
