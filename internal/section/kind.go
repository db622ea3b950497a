package section

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/garnizeh/portfolio/internal/render"
	"github.com/garnizeh/portfolio/pkg/models"
)

// Kind describes one list collection to the generic controller.
type Kind[T any] struct {
	Collection string
	// Title is the capitalised noun used in modal titles and buttons
	// ("Blog Post"); Noun is its lower-case form used in messages.
	Title string
	Noun  string

	PublicEmpty string
	AdminEmpty  string
	LoadError   string

	Decode func(models.Document) T
	Encode func(T) models.Fields
	// Sort orders decoded items in place. Nil keeps store order.
	Sort func([]T)
	// Present shapes the items for the public region. Nil passes them through.
	Present func([]T) any
	// Levels fills the form's select options.
	Levels []string
}

func (k Kind[T]) addedMessage() string   { return capitalize(k.Noun) + " added successfully!" }
func (k Kind[T]) updatedMessage() string { return capitalize(k.Noun) + " updated successfully!" }
func (k Kind[T]) deletedMessage() string { return capitalize(k.Noun) + " deleted successfully!" }
func (k Kind[T]) confirmMessage() string {
	return "Are you sure you want to delete this " + k.Noun + "?"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var Skills = Kind[models.Skill]{
	Collection:  models.CollectionSkills,
	Title:       "Skill",
	Noun:        "skill",
	PublicEmpty: "No skills added yet.",
	AdminEmpty:  "No skills added yet.",
	LoadError:   "Error loading skills.",
	Decode:      models.SkillFromDocument,
	Encode:      models.Skill.ToFields,
	Present:     func(s []models.Skill) any { return render.GroupSkills(s) },
	Levels:      models.SkillLevels,
}

var Experience = Kind[models.Experience]{
	Collection:  models.CollectionExperience,
	Title:       "Experience",
	Noun:        "experience",
	PublicEmpty: "No experience added yet.",
	AdminEmpty:  "No experience added yet.",
	LoadError:   "Error loading experience.",
	Decode:      models.ExperienceFromDocument,
	Encode:      models.Experience.ToFields,
	Sort:        SortExperience,
}

var Projects = Kind[models.Project]{
	Collection:  models.CollectionProjects,
	Title:       "Project",
	Noun:        "project",
	PublicEmpty: "No projects added yet.",
	AdminEmpty:  "No projects added yet.",
	LoadError:   "Error loading projects.",
	Decode:      models.ProjectFromDocument,
	Encode:      models.Project.ToFields,
}

var Blogs = Kind[models.Blog]{
	Collection:  models.CollectionBlogs,
	Title:       "Blog Post",
	Noun:        "blog post",
	PublicEmpty: "No blog posts added yet.",
	AdminEmpty:  "No blog posts added yet.",
	LoadError:   "Error loading blog posts.",
	Decode:      models.BlogFromDocument,
	Encode:      models.Blog.ToFields,
	Sort:        SortBlogs,
}

// openEnded sorts after every real YYYY-MM end date.
const openEnded = "9999-99"

// SortExperience orders by end date descending; ongoing positions come first.
func SortExperience(items []models.Experience) {
	key := func(e models.Experience) string {
		if e.Ongoing() {
			return openEnded
		}
		return e.EndDate
	}
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]) > key(items[j])
	})
}

// SortBlogs orders by date, newest first. Undated posts keep their relative
// order after the dated ones.
func SortBlogs(items []models.Blog) {
	parse := func(b models.Blog) (time.Time, bool) {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(b.Date))
		return t, err == nil
	}
	sort.SliceStable(items, func(i, j int) bool {
		ti, okI := parse(items[i])
		tj, okJ := parse(items[j])
		switch {
		case okI && okJ:
			return ti.After(tj)
		default:
			return okI && !okJ
		}
	})
}

// FieldsFromForm turns submitted form values into document fields. Each field
// keeps its first value; list fields are split later by the decoder.
func FieldsFromForm(values url.Values) models.Fields {
	f := make(models.Fields, len(values))
	for k, v := range values {
		if len(v) > 0 {
			f[k] = v[0]
		}
	}
	return f
}
