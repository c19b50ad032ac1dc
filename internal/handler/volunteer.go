package handler

import (
	"log/slog"
	"net/http"

	"github.com/rosavera/centro/internal/model"
	"github.com/rosavera/centro/internal/store"
)

type VolunteerHandler struct {
	volunteers *store.VolunteerStore
	logger     *slog.Logger
}

func NewVolunteerHandler(vs *store.VolunteerStore, logger *slog.Logger) *VolunteerHandler {
	return &VolunteerHandler{volunteers: vs, logger: logger}
}

func (h *VolunteerHandler) List(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.volunteers.List()
	if err != nil {
		h.logger.Error("list volunteers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list volunteers")
		return
	}
	if volunteers == nil {
		volunteers = []model.Volunteer{}
	}
	writeJSON(w, http.StatusOK, volunteers)
}
