package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rosavera/centro/internal/model"
	"github.com/rosavera/centro/internal/store"
	"github.com/rosavera/centro/internal/websocket"
)

type AssignmentHandler struct {
	instances  *store.InstanceStore
	volunteers *store.VolunteerStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewAssignmentHandler(is *store.InstanceStore, vs *store.VolunteerStore, hub *websocket.Hub, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{instances: is, volunteers: vs, hub: hub, logger: logger}
}

type assignmentRequest struct {
	InstanceID  int64  `json:"instance_id"`
	Role        string `json:"role"`
	VolunteerID int64  `json:"volunteer_id"`
}

func (h *AssignmentHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !model.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "role must be coordinator or co_coordinator")
		return
	}

	volunteer, err := h.volunteers.GetByID(req.VolunteerID)
	if err != nil {
		h.logger.Error("get volunteer", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check volunteer")
		return
	}
	if volunteer == nil {
		writeError(w, http.StatusBadRequest, "volunteer not found")
		return
	}

	inst, err := h.instances.GetByID(req.InstanceID)
	if err != nil {
		h.logger.Error("get instance", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check instance")
		return
	}
	if inst == nil {
		writeError(w, http.StatusNotFound, "instance not found")
		return
	}

	if err := h.instances.SetAssignment(req.InstanceID, req.Role, req.VolunteerID); err != nil {
		h.logger.Error("set assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set assignment")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityAssignment, websocket.ActionUpdated, req.InstanceID, nil))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AssignmentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	instanceID, err := strconv.ParseInt(q.Get("instance_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "instance_id query parameter is required")
		return
	}
	role := q.Get("role")
	if !model.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "role must be coordinator or co_coordinator")
		return
	}

	if err := h.instances.RemoveAssignment(instanceID, role); err != nil {
		h.logger.Error("remove assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove assignment")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(websocket.EntityAssignment, websocket.ActionDeleted, instanceID, nil))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
