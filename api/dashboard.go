package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/portfolio/internal/render"
	"github.com/garnizeh/portfolio/internal/section"
	"github.com/garnizeh/portfolio/pkg/models"
)

// DashboardHandler serves the admin page and the fragments its controls load.
type DashboardHandler struct {
	sections *section.Set
	render   *render.Renderer
	title    string
}

func NewDashboardHandler(sections *section.Set, r *render.Renderer, title string) *DashboardHandler {
	return &DashboardHandler{sections: sections, render: r, title: title}
}

// activeSection picks the tab named by ?section=, defaulting to about.
func activeSection(r *http.Request) string {
	s := r.URL.Query().Get("section")
	if !models.IsCollection(s) {
		return models.CollectionAbout
	}
	return s
}

// Page renders the dashboard with all five sections loaded concurrently.
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	email := ""
	if user != nil {
		email = user.Email
	}

	views := section.LoadAll(r.Context(), h.sections.Loaders()...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.render.Write(w, "dashboard", render.DashboardPage{
		Title:    h.title + " | Dashboard",
		Email:    email,
		Active:   activeSection(r),
		Sections: models.Collections,
		Regions:  section.Regions(views),
	}); err != nil {
		logger.Error("render dashboard", slog.String("error", err.Error()))
	}
}

func (h *DashboardHandler) editor(w http.ResponseWriter, r *http.Request) (section.Editor, bool) {
	e, ok := h.sections.Editor(mux.Vars(r)["section"])
	if !ok {
		http.NotFound(w, r)
	}
	return e, ok
}

func (h *DashboardHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return false
	}
	return true
}

// Region reloads one admin region.
func (h *DashboardHandler) Region(w http.ResponseWriter, r *http.Request) {
	l, ok := h.sections.Loader(mux.Vars(r)["section"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	v := l.Load(r.Context())
	writeFragments(w, section.Response{Region: v.Region, Stale: v.Stale})
}

func (h *DashboardHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	writeFragments(w, e.NewForm())
}

func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok || !h.parseForm(w, r) {
		return
	}
	writeFragments(w, e.Create(r.Context(), r.PostForm))
}

func (h *DashboardHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	writeFragments(w, e.EditForm(r.Context(), mux.Vars(r)["id"]))
}

func (h *DashboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok || !h.parseForm(w, r) {
		return
	}
	writeFragments(w, e.Update(r.Context(), mux.Vars(r)["id"], r.PostForm))
}

func (h *DashboardHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	writeFragments(w, e.DeleteConfirm(mux.Vars(r)["id"]))
}

// Delete deletes only when the confirmation dialog was accepted.
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok || !h.parseForm(w, r) {
		return
	}
	confirmed := r.PostForm.Get("confirm") == "yes"
	writeFragments(w, e.Delete(r.Context(), mux.Vars(r)["id"], confirmed))
}

func (h *DashboardHandler) AboutForm(w http.ResponseWriter, r *http.Request) {
	writeFragments(w, h.sections.About.EditForm(r.Context()))
}

func (h *DashboardHandler) SaveAbout(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	writeFragments(w, h.sections.About.Save(r.Context(), r.PostForm))
}

// CloseModal returns the empty hidden overlay.
func (h *DashboardHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	modal, err := h.render.Fragment("modal", render.Modal{})
	if err != nil {
		logger.Error("render modal", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeFragments(w, section.Response{Modal: modal})
}

func writeFragments(w http.ResponseWriter, resp section.Response) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if resp.NoSwap {
		w.Header().Set("HX-Reswap", "none")
	}
	if resp.Stale {
		w.Header().Set("X-Content-Stale", "true")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := resp.WriteTo(w); err != nil {
		logger.Error("write fragments", slog.String("error", err.Error()))
	}
}
