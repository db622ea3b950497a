package render

import "html/template"

// Region is the data of one section's DOM region.
type Region struct {
	Section string
	Items   any
	Count   int
	Empty   string
	Error   string
}

// Form is the data of a create or edit form hosted by the modal.
type Form struct {
	Section string
	Action  string
	Submit  string
	Values  any
	Levels  []string
	Errors  map[string]string
}

// Modal is the shared overlay. A closed modal renders hidden and empty. OOB
// marks it for an out-of-band swap when it rides along with a region.
type Modal struct {
	Open  bool
	Title string
	Body  template.HTML
	OOB   bool
}

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a transient notification.
type Toast struct {
	Kind    string
	Message string
}

// Confirm is the body of a delete confirmation dialog.
type Confirm struct {
	Section string
	Action  string
	Message string
}

// SitePage is the public portfolio page. Regions holds each section's
// rendered region keyed by collection.
type SitePage struct {
	Title    string
	Owner    string
	Year     int
	Sections []string
	Regions  map[string]template.HTML
}

type LoginPage struct {
	Title string
	Email string
	Error string
}

type DashboardPage struct {
	Title    string
	Email    string
	Active   string
	Sections []string
	Regions  map[string]template.HTML
	Modal    Modal
}
