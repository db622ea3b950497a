// Package render turns documents into HTML fragments and pages.
//
// All text is escaped by html/template. The only raw markup that reaches the
// output comes from fields designated as Markdown, which goldmark renders
// without the unsafe option, so embedded HTML and dangerous links are dropped.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/garnizeh/portfolio/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

func New() (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}

	funcs := template.FuncMap{
		"markdown":  r.Markdown,
		"blogDate":  FormatBlogDate,
		"dateRange": DateRange,
		"lower":     strings.ToLower,
		"join":      strings.Join,
		"title":     SectionTitle,
		"addLabel":  AddLabel,
	}

	tmpl, err := template.New("render").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl

	return r, nil
}

// Must is New for program start-up, panicking on template errors.
func Must() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Fragment renders the named template into a string of markup.
func (r *Renderer) Fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Write renders the named template directly to w.
func (r *Renderer) Write(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// Markdown converts a designated-safe field to HTML.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// FormatBlogDate renders a YYYY-MM-DD date as "Mar 5, 2024". Other inputs are
// returned unchanged.
func FormatBlogDate(date string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// DateRange renders an experience period; a missing end date reads "Present".
func DateRange(start, end string) string {
	if strings.TrimSpace(end) == "" {
		end = "Present"
	}
	return start + " - " + end
}

// SectionTitle is the human label of a collection.
func SectionTitle(collection string) string {
	switch collection {
	case models.CollectionAbout:
		return "About"
	case models.CollectionSkills:
		return "Skills"
	case models.CollectionExperience:
		return "Experience"
	case models.CollectionProjects:
		return "Projects"
	case models.CollectionBlogs:
		return "Blog Posts"
	default:
		return collection
	}
}

// AddLabel is the caption of a section's add button.
func AddLabel(collection string) string {
	switch collection {
	case models.CollectionSkills:
		return "Add Skill"
	case models.CollectionExperience:
		return "Add Experience"
	case models.CollectionProjects:
		return "Add Project"
	case models.CollectionBlogs:
		return "Add Blog Post"
	default:
		return "Add"
	}
}

// SkillGroup is one category of skills on the public site.
type SkillGroup struct {
	Category string
	Skills   []models.Skill
}

// GroupSkills groups skills by category, keeping categories in first-seen order.
func GroupSkills(skills []models.Skill) []SkillGroup {
	var groups []SkillGroup
	index := map[string]int{}
	for _, s := range skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	return groups
}
