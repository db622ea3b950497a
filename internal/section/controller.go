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

// Editor is a list section managed from the dashboard.
type Editor interface {
	Loader
	NewForm() Response
	Create(ctx context.Context, values url.Values) Response
	EditForm(ctx context.Context, id string) Response
	Update(ctx context.Context, id string, values url.Values) Response
	DeleteConfirm(id string) Response
	Delete(ctx context.Context, id string, confirmed bool) Response
}

// Controller runs one list collection.
type Controller[T any] struct {
	base
	kind Kind[T]
}

var _ Editor = (*Controller[models.Skill])(nil)

func New[T any](kind Kind[T], store repository.DocumentStore, r *render.Renderer, mode Mode, logger *slog.Logger) *Controller[T] {
	c := &Controller[T]{kind: kind}
	c.setup(kind.Collection, store, r, mode, logger)
	return c
}

func (c *Controller[T]) emptyMessage() string {
	if c.mode == Public {
		return c.kind.PublicEmpty
	}
	return c.kind.AdminEmpty
}

// Load lists the collection and renders its region. A failed fetch returns
// the previous render marked stale.
func (c *Controller[T]) Load(ctx context.Context) View {
	docs, err := c.store.List(ctx, c.collection)
	if err != nil {
		c.logger.Error("load section", slog.String("error", err.Error()))
		fallback := render.Region{Section: c.collection}
		if c.mode == Public {
			fallback.Error = c.kind.LoadError
		}
		return c.fail(fallback)
	}

	items := make([]T, 0, len(docs))
	for _, d := range docs {
		items = append(items, c.kind.Decode(d))
	}
	if c.kind.Sort != nil {
		c.kind.Sort(items)
	}

	var data any = items
	if c.mode == Public && c.kind.Present != nil {
		data = c.kind.Present(items)
	}

	region, err := c.render.Fragment(c.regionTemplate(), render.Region{
		Section: c.collection,
		Items:   data,
		Count:   len(items),
		Empty:   c.emptyMessage(),
	})
	if err != nil {
		c.logger.Error("render section", slog.String("error", err.Error()))
		return c.fail(render.Region{Section: c.collection})
	}

	c.remember(region)
	return View{Region: region}
}

func (c *Controller[T]) form(action, submit string, values T, errs map[string]string) render.Form {
	return render.Form{
		Section: c.collection,
		Action:  action,
		Submit:  submit,
		Values:  values,
		Levels:  c.kind.Levels,
		Errors:  errs,
	}
}

func (c *Controller[T]) createAction() string       { return "/admin/" + c.collection }
func (c *Controller[T]) itemAction(id string) string { return "/admin/" + c.collection + "/" + url.PathEscape(id) }

// NewForm opens the modal with an empty form.
func (c *Controller[T]) NewForm() Response {
	var zero T
	title := "Add " + c.kind.Title
	return Response{
		Modal: c.modal(title, "form/"+c.collection, c.form(c.createAction(), title, zero, nil), false),
	}
}

// Create stores a new item from the submitted form, then closes the modal,
// reloads the region and reports the outcome.
func (c *Controller[T]) Create(ctx context.Context, values url.Values) Response {
	item := c.kind.Decode(models.Document{Fields: FieldsFromForm(values)})
	title := "Add " + c.kind.Title
	if errs := Validate(item); errs != nil {
		return c.invalid(ctx, title, c.form(c.createAction(), title, item, errs))
	}

	if _, err := c.store.Create(ctx, c.collection, c.kind.Encode(item)); err != nil {
		c.logger.Error("create item", slog.String("error", err.Error()))
		return c.failed(ctx, "Failed to add "+c.kind.Noun)
	}

	c.logger.Info("item created")
	return c.reloaded(ctx, c.kind.addedMessage())
}

// EditForm opens the modal pre-filled with the stored item.
func (c *Controller[T]) EditForm(ctx context.Context, id string) Response {
	doc, err := c.store.Get(ctx, c.collection, id)
	if err != nil {
		c.logger.Error("fetch item", slog.String("id", id), slog.String("error", err.Error()))
		msg := "Failed to load " + c.kind.Noun
		if errors.Is(err, repository.ErrNotFound) {
			msg = capitalize(c.kind.Noun) + " not found"
		}
		return Response{Modal: c.closedModal(false), Toast: c.toast(render.ToastError, msg)}
	}

	title := "Edit " + c.kind.Title
	form := c.form(c.itemAction(id), "Update "+c.kind.Title, c.kind.Decode(*doc), nil)
	return Response{Modal: c.modal(title, "form/"+c.collection, form, false)}
}

// Update overwrites the stored item with the submitted form.
func (c *Controller[T]) Update(ctx context.Context, id string, values url.Values) Response {
	item := c.kind.Decode(models.Document{ID: id, Fields: FieldsFromForm(values)})
	if errs := Validate(item); errs != nil {
		return c.invalid(ctx, "Edit "+c.kind.Title, c.form(c.itemAction(id), "Update "+c.kind.Title, item, errs))
	}

	if err := c.store.Update(ctx, c.collection, id, c.kind.Encode(item)); err != nil {
		c.logger.Error("update item", slog.String("id", id), slog.String("error", err.Error()))
		return c.failed(ctx, "Failed to update "+c.kind.Noun)
	}

	c.logger.Info("item updated", slog.String("id", id))
	return c.reloaded(ctx, c.kind.updatedMessage())
}

// DeleteConfirm asks the operator to confirm deleting id.
func (c *Controller[T]) DeleteConfirm(id string) Response {
	return Response{
		Modal: c.modal("Delete "+c.kind.Title, "confirm", render.Confirm{
			Section: c.collection,
			Action:  c.itemAction(id) + "/delete",
			Message: c.kind.confirmMessage(),
		}, false),
	}
}

// Delete removes id when confirmed. A declined confirmation touches neither
// the store nor the region.
func (c *Controller[T]) Delete(ctx context.Context, id string, confirmed bool) Response {
	if !confirmed {
		region, ok := c.last()
		return Response{Region: region, Modal: c.closedModal(true), NoSwap: !ok}
	}

	if err := c.store.Delete(ctx, c.collection, id); err != nil {
		c.logger.Error("delete item", slog.String("id", id), slog.String("error", err.Error()))
		return c.failed(ctx, "Failed to delete "+c.kind.Noun)
	}

	c.logger.Info("item deleted", slog.String("id", id))
	return c.reloaded(ctx, c.kind.deletedMessage())
}

// invalid keeps the region and reopens the form with its errors.
func (c *Controller[T]) invalid(ctx context.Context, title string, form render.Form) Response {
	region, stale := c.current(ctx, c.Load)
	return Response{
		Region: region,
		Stale:  stale,
		Modal:  c.modal(title, "form/"+c.collection, form, true),
	}
}

// failed closes the modal, keeps the region and shows an error toast.
func (c *Controller[T]) failed(ctx context.Context, message string) Response {
	region, stale := c.current(ctx, c.Load)
	return Response{
		Region: region,
		Stale:  stale,
		Modal:  c.closedModal(true),
		Toast:  c.toast(render.ToastError, message),
	}
}

// reloaded closes the modal, reloads the region and shows a success toast.
func (c *Controller[T]) reloaded(ctx context.Context, message string) Response {
	modal := c.closedModal(true)
	view := c.Load(ctx)
	return Response{
		Region: view.Region,
		Stale:  view.Stale,
		Modal:  modal,
		Toast:  c.toast(render.ToastSuccess, message),
	}
}
