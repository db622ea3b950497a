package section

import (
	"log/slog"

	"github.com/garnizeh/portfolio/internal/render"
	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository"
)

// Set holds one controller per collection, all rendering in the same mode.
type Set struct {
	About *About
	lists map[string]Editor
}

func NewSet(store repository.DocumentStore, r *render.Renderer, mode Mode, logger *slog.Logger) *Set {
	return &Set{
		About: NewAbout(store, r, mode, logger),
		lists: map[string]Editor{
			models.CollectionSkills:     New(Skills, store, r, mode, logger),
			models.CollectionExperience: New(Experience, store, r, mode, logger),
			models.CollectionProjects:   New(Projects, store, r, mode, logger),
			models.CollectionBlogs:      New(Blogs, store, r, mode, logger),
		},
	}
}

// Editor returns the controller of a list collection.
func (s *Set) Editor(collection string) (Editor, bool) {
	e, ok := s.lists[collection]
	return e, ok
}

// Loader returns the controller of any collection.
func (s *Set) Loader(collection string) (Loader, bool) {
	if collection == models.CollectionAbout {
		return s.About, true
	}
	e, ok := s.lists[collection]
	return e, ok
}

// Loaders returns every controller in dashboard order.
func (s *Set) Loaders() []Loader {
	out := make([]Loader, 0, len(models.Collections))
	for _, c := range models.Collections {
		if l, ok := s.Loader(c); ok {
			out = append(out, l)
		}
	}
	return out
}
