package handler

import (
	"log/slog"
	"net/http"

	"github.com/rosavera/centro/internal/model"
	"github.com/rosavera/centro/internal/store"
)

type SourceHandler struct {
	sources *store.SourceStore
	logger  *slog.Logger
}

func NewSourceHandler(ss *store.SourceStore, logger *slog.Logger) *SourceHandler {
	return &SourceHandler{sources: ss, logger: logger}
}

func (h *SourceHandler) List(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	if typ != "" && !model.ValidModule(typ) {
		writeError(w, http.StatusBadRequest, "unknown type")
		return
	}

	sources, err := h.sources.List(typ)
	if err != nil {
		h.logger.Error("list sources", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sources")
		return
	}
	if sources == nil {
		sources = []model.Source{}
	}
	writeJSON(w, http.StatusOK, sources)
}
