package models

import "strings"

// Skill levels accepted by the skills collection.
const (
	LevelExpert       = "Expert"
	LevelAdvanced     = "Advanced"
	LevelIntermediate = "Intermediate"
)

// SkillLevels in the order the form offers them.
var SkillLevels = []string{LevelExpert, LevelAdvanced, LevelIntermediate}

type AboutInfo struct {
	Description string `json:"description" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Location    string `json:"location" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

type Skill struct {
	ID       string `json:"id,omitempty"`
	Category string `json:"category" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Level    string `json:"level" validate:"required,oneof=Expert Advanced Intermediate"`
}

type Experience struct {
	ID           string   `json:"id,omitempty"`
	Position     string   `json:"position" validate:"required"`
	Company      string   `json:"company" validate:"required"`
	StartDate    string   `json:"startDate" validate:"required,datetime=2006-01"`
	EndDate      string   `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01"`
	Description  string   `json:"description" validate:"required"`
	Technologies []string `json:"technologies"`
}

type Project struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Image        string   `json:"image,omitempty" validate:"omitempty,url"`
	Technologies []string `json:"technologies"`
	GithubLink   string   `json:"githubLink,omitempty" validate:"omitempty,url"`
	LiveLink     string   `json:"liveLink,omitempty" validate:"omitempty,url"`
}

type Blog struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title" validate:"required"`
	Category string `json:"category" validate:"required"`
	Excerpt  string `json:"excerpt" validate:"required"`
	Image    string `json:"image,omitempty" validate:"omitempty,url"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Link     string `json:"link,omitempty" validate:"omitempty,url"`
}

// SplitList turns comma separated input into a list of trimmed, non-empty
// entries. The result is never nil.
func SplitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeList re-applies SplitList semantics to an already split list.
func normalizeList(in []string) []string {
	out := []string{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (a AboutInfo) ToFields() Fields {
	return Fields{
		"description": a.Description,
		"email":       a.Email,
		"location":    a.Location,
		"status":      a.Status,
	}
}

func AboutFromFields(f Fields) AboutInfo {
	return AboutInfo{
		Description: f.String("description"),
		Email:       f.String("email"),
		Location:    f.String("location"),
		Status:      f.String("status"),
	}
}

func (s Skill) ToFields() Fields {
	return Fields{
		"category": s.Category,
		"name":     s.Name,
		"level":    s.Level,
	}
}

func SkillFromDocument(d Document) Skill {
	return Skill{
		ID:       d.ID,
		Category: d.Fields.String("category"),
		Name:     d.Fields.String("name"),
		Level:    d.Fields.String("level"),
	}
}

// ToFields writes every field, so an update with a blank EndDate clears it.
func (e Experience) ToFields() Fields {
	return Fields{
		"position":     e.Position,
		"company":      e.Company,
		"startDate":    e.StartDate,
		"endDate":      strings.TrimSpace(e.EndDate),
		"description":  e.Description,
		"technologies": normalizeList(e.Technologies),
	}
}

func ExperienceFromDocument(d Document) Experience {
	return Experience{
		ID:           d.ID,
		Position:     d.Fields.String("position"),
		Company:      d.Fields.String("company"),
		StartDate:    strings.TrimSpace(d.Fields.String("startDate")),
		EndDate:      strings.TrimSpace(d.Fields.String("endDate")),
		Description:  d.Fields.String("description"),
		Technologies: d.Fields.List("technologies"),
	}
}

// Ongoing reports whether the position has no end date.
func (e Experience) Ongoing() bool {
	return strings.TrimSpace(e.EndDate) == ""
}

func (p Project) ToFields() Fields {
	return Fields{
		"title":        p.Title,
		"description":  p.Description,
		"image":        p.Image,
		"technologies": normalizeList(p.Technologies),
		"githubLink":   p.GithubLink,
		"liveLink":     p.LiveLink,
	}
}

func ProjectFromDocument(d Document) Project {
	return Project{
		ID:           d.ID,
		Title:        d.Fields.String("title"),
		Description:  d.Fields.String("description"),
		Image:        d.Fields.String("image"),
		Technologies: d.Fields.List("technologies"),
		GithubLink:   d.Fields.String("githubLink"),
		LiveLink:     d.Fields.String("liveLink"),
	}
}

func (b Blog) ToFields() Fields {
	return Fields{
		"title":    b.Title,
		"category": b.Category,
		"excerpt":  b.Excerpt,
		"image":    b.Image,
		"date":     b.Date,
		"link":     b.Link,
	}
}

func BlogFromDocument(d Document) Blog {
	return Blog{
		ID:       d.ID,
		Title:    d.Fields.String("title"),
		Category: d.Fields.String("category"),
		Excerpt:  d.Fields.String("excerpt"),
		Image:    d.Fields.String("image"),
		Date:     d.Fields.String("date"),
		Link:     d.Fields.String("link"),
	}
}
