package section

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/garnizeh/portfolio/internal/render"
	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository"
)

const (
	aboutPublicEmpty = "No about information available yet."
	aboutAdminEmpty  = `No about information yet. Click "Edit About" to add.`
	aboutAction      = "/admin/about"
)

// About runs the singleton about record.
type About struct {
	base
}

func NewAbout(store repository.DocumentStore, r *render.Renderer, mode Mode, logger *slog.Logger) *About {
	a := &About{}
	a.setup(models.CollectionAbout, store, r, mode, logger)
	return a
}

func (a *About) emptyMessage() string {
	if a.mode == Public {
		return aboutPublicEmpty
	}
	return aboutAdminEmpty
}

// Load renders the about record. A missing record renders the empty state; a
// failed fetch keeps whatever was shown before.
func (a *About) Load(ctx context.Context) View {
	region := render.Region{Section: a.collection, Empty: a.emptyMessage()}

	doc, err := a.store.Get(ctx, a.collection, models.AboutKey)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		a.logger.Error("load about", slog.String("error", err.Error()))
		return a.fail(render.Region{Section: a.collection})
	default:
		region.Items = models.AboutFromFields(doc.Fields)
		region.Count = 1
	}

	out, err := a.render.Fragment(a.regionTemplate(), region)
	if err != nil {
		a.logger.Error("render about", slog.String("error", err.Error()))
		return a.fail(render.Region{Section: a.collection})
	}

	a.remember(out)
	return View{Region: out}
}

func (a *About) form(values models.AboutInfo, errs map[string]string) render.Form {
	return render.Form{
		Section: a.collection,
		Action:  aboutAction,
		Submit:  "Save",
		Values:  values,
		Errors:  errs,
	}
}

// EditForm opens the modal pre-filled with the stored record, or with blank
// fields when there is none yet.
func (a *About) EditForm(ctx context.Context) Response {
	var info models.AboutInfo
	doc, err := a.store.Get(ctx, a.collection, models.AboutKey)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		a.logger.Error("fetch about", slog.String("error", err.Error()))
		return Response{Modal: a.closedModal(false), Toast: a.toast(render.ToastError, "Failed to load about information")}
	default:
		info = models.AboutFromFields(doc.Fields)
	}

	return Response{Modal: a.modal("Edit About", "form/about", a.form(info, nil), false)}
}

// Save writes the submitted form to the singleton record.
func (a *About) Save(ctx context.Context, values url.Values) Response {
	info := models.AboutFromFields(FieldsFromForm(values))
	if errs := Validate(info); errs != nil {
		region, stale := a.current(ctx, a.Load)
		return Response{
			Region: region,
			Stale:  stale,
			Modal:  a.modal("Edit About", "form/about", a.form(info, errs), true),
		}
	}

	if err := a.store.SetSingleton(ctx, a.collection, models.AboutKey, info.ToFields()); err != nil {
		a.logger.Error("save about", slog.String("error", err.Error()))
		region, stale := a.current(ctx, a.Load)
		return Response{
			Region: region,
			Stale:  stale,
			Modal:  a.closedModal(true),
			Toast:  a.toast(render.ToastError, "Failed to save about information"),
		}
	}

	a.logger.Info("about saved")
	modal := a.closedModal(true)
	view := a.Load(ctx)
	return Response{
		Region: view.Region,
		Stale:  view.Stale,
		Modal:  modal,
		Toast:  a.toast(render.ToastSuccess, "About updated successfully!"),
	}
}
