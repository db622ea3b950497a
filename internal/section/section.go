// Package section drives the five content sections of the site and the
// dashboard. A controller loads its collection, renders it into a region and,
// on the dashboard, runs the add, edit and delete flows through the shared
// modal. Store failures never escape a controller: they are logged and turned
// into a stale region or an error toast.
package section

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/garnizeh/portfolio/internal/render"
	"github.com/garnizeh/portfolio/pkg/repository"
)

// Mode selects which markup a controller renders.
type Mode int

const (
	Admin Mode = iota
	Public
)

func (m Mode) String() string {
	if m == Public {
		return "public"
	}
	return "admin"
}

// View is the outcome of a load.
type View struct {
	Region template.HTML
	// Stale is set when the fetch failed and Region is the last good render.
	Stale bool
}

// Response is the set of fragments an operation sends back to the browser.
// Region is the primary swap target unless it is empty, in which case Modal
// is. Toast is always out of band.
type Response struct {
	Region template.HTML
	Modal  template.HTML
	Toast  template.HTML
	Stale  bool
	// NoSwap tells the client to leave the target alone and apply only the
	// out-of-band fragments.
	NoSwap bool
}

// WriteTo writes the fragments in swap order.
func (r Response) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, part := range []template.HTML{r.Region, r.Modal, r.Toast} {
		if part == "" {
			continue
		}
		m, err := io.WriteString(w, string(part))
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Loader is implemented by every section controller.
type Loader interface {
	Collection() string
	Load(ctx context.Context) View
}

// LoadAll runs every loader concurrently and returns the regions keyed by
// collection. Each load writes only its own slot.
func LoadAll(ctx context.Context, loaders ...Loader) map[string]View {
	views := make([]View, len(loaders))
	var wg sync.WaitGroup
	for i, l := range loaders {
		wg.Add(1)
		go func(i int, l Loader) {
			defer wg.Done()
			views[i] = l.Load(ctx)
		}(i, l)
	}
	wg.Wait()

	out := make(map[string]View, len(loaders))
	for i, l := range loaders {
		out[l.Collection()] = views[i]
	}
	return out
}

// Regions flattens views into the map the page templates expect.
func Regions(views map[string]View) map[string]template.HTML {
	out := make(map[string]template.HTML, len(views))
	for k, v := range views {
		out[k] = v.Region
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// fieldErrors maps a validation failure to per-field messages keyed by the
// field's JSON name.
func fieldErrors(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "url":
		return fe.Field() + " must be a valid URL"
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	case "datetime":
		return fe.Field() + " must be a date in " + layoutLabel(fe.Param()) + " form"
	default:
		return fe.Field() + " is invalid"
	}
}

// layoutLabel spells a time layout the way the forms describe it.
func layoutLabel(layout string) string {
	return strings.NewReplacer("2006", "YYYY", "01", "MM", "02", "DD").Replace(layout)
}

// Validate checks v against its validation tags and returns per-field
// messages, or nil when v is valid.
func Validate(v any) map[string]string {
	if err := validate.Struct(v); err != nil {
		return fieldErrors(err)
	}
	return nil
}

// base carries what every controller shares: collaborators and the snapshot
// of the last good render.
type base struct {
	collection string
	store      repository.DocumentStore
	render     *render.Renderer
	mode       Mode
	logger     *slog.Logger

	mu       sync.Mutex
	snapshot template.HTML
	rendered bool
}

func (b *base) setup(collection string, store repository.DocumentStore, r *render.Renderer, mode Mode, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	b.collection = collection
	b.store = store
	b.render = r
	b.mode = mode
	b.logger = logger.With(slog.String("collection", collection), slog.String("mode", mode.String()))
}

func (b *base) Collection() string { return b.collection }

func (b *base) regionTemplate() string {
	return b.mode.String() + "/" + b.collection
}

func (b *base) remember(region template.HTML) {
	b.mu.Lock()
	b.snapshot = region
	b.rendered = true
	b.mu.Unlock()
}

// last returns the snapshot and whether there is one.
func (b *base) last() (template.HTML, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot, b.rendered
}

// fail serves the snapshot after a failed load. Without one the region is
// rendered from fallback.
func (b *base) fail(fallback render.Region) View {
	if region, ok := b.last(); ok {
		return View{Region: region, Stale: true}
	}
	region, err := b.render.Fragment(b.regionTemplate(), fallback)
	if err != nil {
		b.logger.Error("render fallback region", slog.String("error", err.Error()))
	}
	return View{Region: region, Stale: true}
}

func (b *base) modal(title, bodyTemplate string, data any, oob bool) template.HTML {
	body, err := b.render.Fragment(bodyTemplate, data)
	if err != nil {
		b.logger.Error("render modal body", slog.String("template", bodyTemplate), slog.String("error", err.Error()))
		return b.closedModal(oob)
	}
	return b.fragment("modal", render.Modal{Open: true, Title: title, Body: body, OOB: oob})
}

func (b *base) closedModal(oob bool) template.HTML {
	return b.fragment("modal", render.Modal{OOB: oob})
}

func (b *base) toast(kind, message string) template.HTML {
	return b.fragment("toast", render.Toast{Kind: kind, Message: message})
}

func (b *base) fragment(name string, data any) template.HTML {
	out, err := b.render.Fragment(name, data)
	if err != nil {
		b.logger.Error("render fragment", slog.String("template", name), slog.String("error", err.Error()))
	}
	return out
}

// current returns the region as last rendered, or loads it when nothing has
// been rendered yet.
func (b *base) current(ctx context.Context, load func(context.Context) View) (template.HTML, bool) {
	if region, ok := b.last(); ok {
		return region, false
	}
	v := load(ctx)
	return v.Region, v.Stale
}
