package section

import (
	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository"
)

// Normalize decodes fields as the collection's content type, validates them
// and re-encodes them the way the dashboard forms store them. Invalid input
// returns the per-field messages and nil fields.
func Normalize(collection string, fields models.Fields) (models.Fields, map[string]string, error) {
	switch collection {
	case models.CollectionAbout:
		info := models.AboutFromFields(fields)
		if errs := Validate(info); errs != nil {
			return nil, errs, nil
		}
		return info.ToFields(), nil, nil
	case models.CollectionSkills:
		return normalizeKind(Skills, fields)
	case models.CollectionExperience:
		return normalizeKind(Experience, fields)
	case models.CollectionProjects:
		return normalizeKind(Projects, fields)
	case models.CollectionBlogs:
		return normalizeKind(Blogs, fields)
	default:
		return nil, nil, repository.ErrUnknownCollection
	}
}

func normalizeKind[T any](k Kind[T], fields models.Fields) (models.Fields, map[string]string, error) {
	item := k.Decode(models.Document{Fields: fields})
	if errs := Validate(item); errs != nil {
		return nil, errs, nil
	}
	return k.Encode(item), nil, nil
}

// Decode returns a stored document as its collection's content type.
func Decode(collection string, doc models.Document) (any, error) {
	switch collection {
	case models.CollectionAbout:
		return models.AboutFromFields(doc.Fields), nil
	case models.CollectionSkills:
		return Skills.Decode(doc), nil
	case models.CollectionExperience:
		return Experience.Decode(doc), nil
	case models.CollectionProjects:
		return Projects.Decode(doc), nil
	case models.CollectionBlogs:
		return Blogs.Decode(doc), nil
	default:
		return nil, repository.ErrUnknownCollection
	}
}
