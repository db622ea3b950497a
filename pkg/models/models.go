package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// Collection names. A document belongs to exactly one of them.
const (
	CollectionAbout      = "about"
	CollectionSkills     = "skills"
	CollectionExperience = "experience"
	CollectionProjects   = "projects"
	CollectionBlogs      = "blogs"
)

// AboutKey is the fixed key of the singleton about record.
const AboutKey = "main"

// Collections lists every known collection in dashboard order.
var Collections = []string{
	CollectionAbout,
	CollectionSkills,
	CollectionExperience,
	CollectionProjects,
	CollectionBlogs,
}

// IsCollection reports whether name is a known collection.
func IsCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// Fields is the flat record held by a document. Values are string or []string.
type Fields map[string]any

// Document is one stored record of a collection.
type Document struct {
	ID      string `json:"id" db:"id"`
	Fields  Fields `json:"fields" db:"fields"`
	Created int64  `json:"created" db:"created"`
	Updated int64  `json:"updated" db:"updated"`
}

// String returns the named field as a string; missing or non-string values yield "".
func (f Fields) String(name string) string {
	switch v := f[name].(type) {
	case string:
		return v
	default:
		return ""
	}
}

// List returns the named field as a list of strings. Values decoded from JSON
// arrive as []any and are converted; a plain string is split as comma input.
func (f Fields) List(name string) []string {
	switch v := f[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return SplitList(v)
	default:
		return []string{}
	}
}

// Operator is an account allowed to sign in to the dashboard.
type Operator struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	Updated      int64  `json:"updated" db:"updated"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
	Disabled     bool   `json:"disabled" db:"disabled"`
}
