package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rosavera/centro/internal/model"
	"github.com/rosavera/centro/internal/schedule"
	"github.com/rosavera/centro/internal/store"
	"github.com/rosavera/centro/internal/websocket"
)

type GenerateHandler struct {
	instances *store.InstanceStore
	sources   *store.SourceStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewGenerateHandler(is *store.InstanceStore, ss *store.SourceStore, hub *websocket.Hub, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{instances: is, sources: ss, hub: hub, logger: logger}
}

type classicRequest struct {
	Year            int    `json:"year"`
	StartMonth      int    `json:"start_month"`
	EndMonth        int    `json:"end_month"`
	InPersonGroupID *int64 `json:"in_person_group_id"`
	WorkshopID      *int64 `json:"workshop_id"`
	VirtualGroupID  *int64 `json:"virtual_group_id"`
	InPersonStart   string `json:"in_person_start"`
	WorkshopStart   string `json:"workshop_start"`
	VirtualStart    string `json:"virtual_start"`
}

type customRequest struct {
	Module          string `json:"module"`
	SourceID        *int64 `json:"source_id"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	SecondModule    string `json:"second_module"`
	SecondSourceID  *int64 `json:"second_source_id"`
	SecondStartTime string `json:"second_start_time"`
	SecondEndTime   string `json:"second_end_time"`
	Weekdays        []int  `json:"weekdays"`
	Frequency       string `json:"frequency"`
	DateStart       string `json:"date_start"`
	DateEnd         string `json:"date_end"`
}

// generateItem is one caller-expanded occurrence for the pre-materialized
// custom mode.
type generateItem struct {
	Date      string `json:"date"`
	Type      string `json:"type"`
	SourceID  *int64 `json:"source_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Notes     string `json:"notes"`
}

type previewRequest struct {
	Mode    string          `json:"mode"`
	Classic *classicRequest `json:"classic"`
	Custom  *customRequest  `json:"custom"`
}

func (r *classicRequest) toSpec() schedule.ClassicSpec {
	return schedule.ClassicSpec{
		Year:            r.Year,
		StartMonth:      r.StartMonth,
		EndMonth:        r.EndMonth,
		InPersonGroupID: r.InPersonGroupID,
		WorkshopID:      r.WorkshopID,
		VirtualGroupID:  r.VirtualGroupID,
		InPersonStart:   r.InPersonStart,
		WorkshopStart:   r.WorkshopStart,
		VirtualStart:    r.VirtualStart,
	}
}

func (r *customRequest) toSpec() schedule.CustomSpec {
	return schedule.CustomSpec{
		Module:          r.Module,
		SourceID:        r.SourceID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		SecondModule:    r.SecondModule,
		SecondSourceID:  r.SecondSourceID,
		SecondStartTime: r.SecondStartTime,
		SecondEndTime:   r.SecondEndTime,
		Weekdays:        r.Weekdays,
		Frequency:       r.Frequency,
		DateStart:       r.DateStart,
		DateEnd:         r.DateEnd,
	}
}

// expand turns a preview request into candidates, resolving display labels
// from the source catalogue.
func (h *GenerateHandler) expand(req previewRequest) ([]schedule.Candidate, bool) {
	names, err := h.sources.NameIndex()
	if err != nil {
		h.logger.Error("load source names", "error", err)
		names = schedule.SourceNames{}
	}
	switch req.Mode {
	case "classic":
		if req.Classic == nil {
			return nil, false
		}
		return schedule.Classic(req.Classic.toSpec(), names), true
	case "custom":
		if req.Custom == nil {
			return nil, false
		}
		return schedule.Custom(req.Custom.toSpec(), names), true
	}
	return nil, false
}

// Preview expands a recurrence request and annotates each candidate with
// the first overlapping instance already on the calendar. No mutation.
func (h *GenerateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	candidates, ok := h.expand(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be classic or custom, with a matching spec")
		return
	}

	var existing []model.CalendarInstance
	for _, year := range schedule.Years(candidates) {
		instances, err := h.instances.List(year, nil, store.InstanceFilter{})
		if err != nil {
			h.logger.Error("list instances for preview", "year", year, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to read calendar")
			return
		}
		existing = append(existing, instances...)
	}

	entries := schedule.Annotate(candidates, existing)
	if entries == nil {
		entries = []schedule.PreviewEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

type generateRequest struct {
	Mode    string          `json:"mode"`
	Classic *classicRequest `json:"classic"`
	Items   []generateItem  `json:"items"`
}

// Generate persists a batch of occurrences, one create per candidate in
// ascending date order. A failure partway through leaves the earlier
// creates in place and reports how far the batch got.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var batch []store.CreateParams
	switch req.Mode {
	case "classic":
		if req.Classic == nil {
			writeError(w, http.StatusBadRequest, "classic spec is required")
			return
		}
		names, err := h.sources.NameIndex()
		if err != nil {
			h.logger.Error("load source names", "error", err)
			names = schedule.SourceNames{}
		}
		for _, c := range schedule.Classic(req.Classic.toSpec(), names) {
			batch = append(batch, store.CreateParams{
				Type:      c.Type,
				SourceID:  c.SourceID,
				Date:      c.Date,
				StartTime: c.StartTime,
				EndTime:   c.EndTime,
			})
		}
	case "custom":
		for _, item := range req.Items {
			// Incomplete items are skipped, not fatal.
			if !model.ValidModule(item.Type) || !validDate(item.Date) ||
				!validClock(item.StartTime) || !validClock(item.EndTime) {
				continue
			}
			batch = append(batch, store.CreateParams{
				Type:      item.Type,
				SourceID:  item.SourceID,
				Date:      item.Date,
				StartTime: item.StartTime,
				EndTime:   item.EndTime,
				Notes:     item.Notes,
			})
		}
	default:
		writeError(w, http.StatusBadRequest, "mode must be classic or custom")
		return
	}

	created := []model.CalendarInstance{}
	for _, params := range batch {
		inst, err := h.instances.Create(params)
		if err != nil {
			h.logger.Error("generate batch", "created", len(created), "of", len(batch), "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":         "batch stopped partway",
				"created_count": len(created),
				"instances":     created,
			})
			return
		}
		created = append(created, *inst)
	}

	if len(created) > 0 {
		h.hub.Broadcast(websocket.NewMessage(websocket.EntityInstance, websocket.ActionGenerated, 0,
			map[string]any{"count": len(created)}))
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"created_count": len(created),
		"instances":     created,
	})
}
