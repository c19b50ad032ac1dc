package handler

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rosavera/centro/internal/model"
	"github.com/rosavera/centro/internal/store"
	"github.com/rosavera/centro/internal/websocket"
)

type InstanceHandler struct {
	instances  *store.InstanceStore
	volunteers *store.VolunteerStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewInstanceHandler(is *store.InstanceStore, vs *store.VolunteerStore, hub *websocket.Hub, logger *slog.Logger) *InstanceHandler {
	return &InstanceHandler{instances: is, volunteers: vs, hub: hub, logger: logger}
}

func (h *InstanceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "year query parameter is required")
		return
	}

	var month *int
	if m := q.Get("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil || v < 1 || v > 12 {
			writeError(w, http.StatusBadRequest, "month must be 1-12")
			return
		}
		month = &v
	}

	var filter store.InstanceFilter
	if typ := q.Get("type"); typ != "" {
		if !model.ValidModule(typ) {
			writeError(w, http.StatusBadRequest, "unknown type")
			return
		}
		filter.Type = typ
	}
	if vs := q.Get("volunteer_id"); vs != "" {
		id, err := strconv.ParseInt(vs, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "volunteer_id must be an integer")
			return
		}
		filter.VolunteerID = &id
	}

	instances, err := h.instances.List(year, month, filter)
	if err != nil {
		h.logger.Error("list instances", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list instances")
		return
	}
	if instances == nil {
		instances = []model.CalendarInstance{}
	}
	writeJSON(w, http.StatusOK, instances)
}

type instanceRequest struct {
	Type            string `json:"type"`
	SourceID        *int64 `json:"source_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Notes           string `json:"notes"`
	Status          string `json:"status"`
	CoordinatorID   *int64 `json:"coordinator_id"`
	CoCoordinatorID *int64 `json:"co_coordinator_id"`
}

func (h *InstanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req instanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !model.ValidModule(req.Type) {
		writeError(w, http.StatusBadRequest, "type must be group, workshop, or activity")
		return
	}
	if !validDate(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if !validClock(req.StartTime) || !validClock(req.EndTime) {
		writeError(w, http.StatusBadRequest, "start_time and end_time must be HH:MM")
		return
	}
	if req.Status != "" && !model.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	inst, err := h.instances.Create(store.CreateParams{
		Type:      req.Type,
		SourceID:  req.SourceID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
		Status:    req.Status,
	})
	if err != nil {
		h.logger.Error("create instance", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create instance")
		return
	}

	if req.CoordinatorID != nil {
		if err := h.assign(inst.ID, model.RoleCoordinator, *req.CoordinatorID); err != nil {
			h.logger.Warn("assign coordinator", "instance", inst.ID, "error", err)
		}
	}
	if req.CoCoordinatorID != nil {
		if err := h.assign(inst.ID, model.RoleCoCoordinator, *req.CoCoordinatorID); err != nil {
			h.logger.Warn("assign co_coordinator", "instance", inst.ID, "error", err)
		}
	}

	inst, err = h.instances.GetByID(inst.ID)
	if err != nil || inst == nil {
		writeError(w, http.StatusInternalServerError, "failed to read created instance")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityInstance, websocket.ActionCreated, inst.ID, nil))
	writeJSON(w, http.StatusCreated, inst)
}

func (h *InstanceHandler) assign(instanceID int64, role string, volunteerID int64) error {
	return h.instances.SetAssignment(instanceID, role, volunteerID)
}

type instanceUpdateRequest struct {
	Type            *string    `json:"type"`
	SourceID        OptionalID `json:"source_id"`
	Date            *string    `json:"date"`
	StartTime       *string    `json:"start_time"`
	EndTime         *string    `json:"end_time"`
	Notes           *string    `json:"notes"`
	Status          *string    `json:"status"`
	CoordinatorID   OptionalID `json:"coordinator_id"`
	CoCoordinatorID OptionalID `json:"co_coordinator_id"`
}

func (h *InstanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.instances.GetByID(id)
	if err != nil {
		h.logger.Error("get instance", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read instance")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "instance not found")
		return
	}

	var req instanceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Type != nil && !model.ValidModule(*req.Type) {
		writeError(w, http.StatusBadRequest, "unknown type")
		return
	}
	if req.Date != nil && !validDate(*req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.StartTime != nil && !validClock(*req.StartTime) {
		writeError(w, http.StatusBadRequest, "start_time must be HH:MM")
		return
	}
	if req.EndTime != nil && !validClock(*req.EndTime) {
		writeError(w, http.StatusBadRequest, "end_time must be HH:MM")
		return
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	params := store.UpdateParams{
		Type:      req.Type,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
		Status:    req.Status,
	}
	if req.SourceID.Set {
		link := sql.NullInt64{}
		if req.SourceID.Value != nil {
			link = sql.NullInt64{Int64: *req.SourceID.Value, Valid: true}
		}
		params.SourceID = &link
	}

	inst, err := h.instances.Update(id, params)
	if err != nil {
		h.logger.Error("update instance", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update instance")
		return
	}

	if err := h.applyRole(id, model.RoleCoordinator, req.CoordinatorID); err != nil {
		h.logger.Warn("update coordinator", "instance", id, "error", err)
	}
	if err := h.applyRole(id, model.RoleCoCoordinator, req.CoCoordinatorID); err != nil {
		h.logger.Warn("update co_coordinator", "instance", id, "error", err)
	}
	if req.CoordinatorID.Set || req.CoCoordinatorID.Set {
		inst, err = h.instances.GetByID(id)
		if err != nil || inst == nil {
			writeError(w, http.StatusInternalServerError, "failed to read updated instance")
			return
		}
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityInstance, websocket.ActionUpdated, id, nil))
	writeJSON(w, http.StatusOK, inst)
}

// applyRole maps the tri-state id field onto the assignment operations:
// absent leaves the role alone, null clears it, a value sets it.
func (h *InstanceHandler) applyRole(instanceID int64, role string, field OptionalID) error {
	if !field.Set {
		return nil
	}
	if field.Value == nil {
		return h.instances.RemoveAssignment(instanceID, role)
	}
	return h.instances.SetAssignment(instanceID, role, *field.Value)
}

func (h *InstanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.instances.GetByID(id)
	if err != nil {
		h.logger.Error("get instance", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read instance")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "instance not found")
		return
	}

	if err := h.instances.Delete(id); err != nil {
		h.logger.Error("delete instance", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete instance")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityInstance, websocket.ActionDeleted, id, nil))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
