package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository"
)

// SystemHandler serves the operational endpoints.
type SystemHandler struct {
	store repository.DocumentStore
}

func NewSystemHandler(store repository.DocumentStore) *SystemHandler {
	return &SystemHandler{store: store}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Store   string `json:"store"`
}

// HealthHandler reports ok when the document store answers a read. A missing
// about record still counts as a healthy store.
func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Service: "portfolio", Store: "ok"}
	if h.store != nil {
		_, err := h.store.Get(r.Context(), models.CollectionAbout, models.AboutKey)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			logger.Error("health check", slog.String("error", err.Error()))
			resp.Status, resp.Store = "degraded", "unavailable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": version, "buildTime": buildTime})
	}
}
