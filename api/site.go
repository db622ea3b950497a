package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/garnizeh/portfolio/internal/render"
	"github.com/garnizeh/portfolio/internal/section"
	"github.com/garnizeh/portfolio/pkg/models"
)

// SiteHandler serves the public portfolio.
type SiteHandler struct {
	sections *section.Set
	render   *render.Renderer
	title    string
	owner    string
	now      func() time.Time
}

func NewSiteHandler(sections *section.Set, r *render.Renderer, title, owner string) *SiteHandler {
	if owner == "" {
		owner = title
	}
	return &SiteHandler{sections: sections, render: r, title: title, owner: owner, now: time.Now}
}

// Home renders the whole page. The five sections load concurrently and each
// fills only its own region.
func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	views := section.LoadAll(r.Context(), h.sections.Loaders()...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.render.Write(w, "site", render.SitePage{
		Title:    h.title,
		Owner:    h.owner,
		Year:     h.now().Year(),
		Sections: models.Collections,
		Regions:  section.Regions(views),
	}); err != nil {
		logger.Error("render site", slog.String("error", err.Error()))
	}
}

// Section returns one public region.
func (h *SiteHandler) Section(w http.ResponseWriter, r *http.Request) {
	l, ok := h.sections.Loader(mux.Vars(r)["section"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	view := l.Load(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if view.Stale {
		w.Header().Set("X-Content-Stale", "true")
	}
	if _, err := w.Write([]byte(view.Region)); err != nil {
		logger.Error("write section", slog.String("error", err.Error()))
	}
}
