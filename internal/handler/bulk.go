package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rosavera/centro/internal/store"
	"github.com/rosavera/centro/internal/websocket"
)

type BulkHandler struct {
	instances *store.InstanceStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewBulkHandler(is *store.InstanceStore, hub *websocket.Hub, logger *slog.Logger) *BulkHandler {
	return &BulkHandler{instances: is, hub: hub, logger: logger}
}

// Count is the dry run behind the confirmation dialog: how many instances
// the filter would remove. Unresolvable filters report zero rather than
// erroring, so the dialog is always safe to render.
func (h *BulkHandler) Count(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	scope := q.Get("scope")
	if !store.ValidScope(scope) {
		writeError(w, http.StatusBadRequest, "scope must be month, type, series, or all")
		return
	}

	filter := store.BulkFilter{Scope: scope, Type: q.Get("type")}
	if y := q.Get("year"); y != "" {
		filter.Year, _ = strconv.Atoi(y)
	}
	if m := q.Get("month"); m != "" {
		filter.Month, _ = strconv.Atoi(m)
	}
	if s := q.Get("source_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "source_id must be an integer")
			return
		}
		filter.SourceID = &id
	}

	count, err := h.instances.CountBulk(filter)
	if err != nil {
		h.logger.Error("bulk count", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to count instances")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

type bulkDeleteRequest struct {
	Scope    string `json:"scope"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Type     string `json:"type"`
	SourceID *int64 `json:"source_id"`
}

// Delete removes everything the filter matches. The same filter builder
// backs Count, so the previewed number is what goes away.
func (h *BulkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !store.ValidScope(req.Scope) {
		writeError(w, http.StatusBadRequest, "scope must be month, type, series, or all")
		return
	}

	deleted, err := h.instances.DeleteBulk(store.BulkFilter{
		Scope:    req.Scope,
		Year:     req.Year,
		Month:    req.Month,
		Type:     req.Type,
		SourceID: req.SourceID,
	})
	if err != nil {
		h.logger.Error("bulk delete", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete instances")
		return
	}

	if deleted > 0 {
		h.hub.Broadcast(websocket.NewMessage(websocket.EntityInstance, websocket.ActionBulkDeleted, 0,
			map[string]any{"count": deleted}))
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted_count": deleted})
}
