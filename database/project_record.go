package database

import (
	"encoding/json"
	"time"

	"github.com/quonaro/portfolio-backend/models"
	"gorm.io/datatypes"
)

// ProjectRecord is the row layout of the projects table. JSON columns are kept raw
// and decoded leniently, since older rows hold localized text as plain strings.
type ProjectRecord struct {
	ID               string         `json:"id" gorm:"column:id;type:text;primaryKey;not null"`
	Name             datatypes.JSON `json:"name" gorm:"column:name;type:jsonb;not null"`
	ShortDescription datatypes.JSON `json:"shortDescription" gorm:"column:short_description;type:jsonb"`
	Technologies     datatypes.JSON `json:"technologies" gorm:"column:technologies;type:jsonb"`
	Media            datatypes.JSON `json:"media" gorm:"column:media;type:jsonb"`
	Buttons          datatypes.JSON `json:"buttons" gorm:"column:buttons;type:jsonb"`
	Links            datatypes.JSON `json:"links" gorm:"column:links;type:jsonb"`
	CoverImage       *string        `json:"cover_image" gorm:"column:cover_image;type:text"`
	CoverConfig      datatypes.JSON `json:"cover_config" gorm:"column:cover_config;type:jsonb"`
	IsInGallery      bool           `json:"is_in_gallery" gorm:"column:is_in_gallery;not null;default:false"`
	CreatedAt        time.Time      `json:"created_at" gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (ProjectRecord) TableName() string {
	return "projects"
}

// projectColumns reads NULL JSON columns as JSON null so they scan into datatypes.JSON.
const projectColumns = `id,
	COALESCE(name, 'null'::jsonb) AS name,
	COALESCE(short_description, 'null'::jsonb) AS short_description,
	COALESCE(technologies, '[]'::jsonb) AS technologies,
	COALESCE(media, '[]'::jsonb) AS media,
	COALESCE(buttons, '[]'::jsonb) AS buttons,
	COALESCE(links, '{}'::jsonb) AS links,
	cover_image,
	COALESCE(cover_config, 'null'::jsonb) AS cover_config,
	is_in_gallery,
	created_at`

// ToProject decodes the record into the canonical domain shape. It never fails:
// unreadable columns fall back to empty values.
func (r ProjectRecord) ToProject() models.Project {
	p := models.Project{
		ID:               r.ID,
		Name:             models.NormalizeLocalized(json.RawMessage(r.Name), ""),
		ShortDescription: models.NormalizeLocalized(json.RawMessage(r.ShortDescription), ""),
		IsInGallery:      r.IsInGallery,
		CreatedAt:        r.CreatedAt,
	}
	if r.CoverImage != nil {
		p.CoverImage = *r.CoverImage
	}
	p.Technologies = decodeTechnologies(r.Technologies)
	p.Media = decodeList[models.MediaItem](r.Media)
	p.Buttons = decodeList[models.ActionButton](r.Buttons)
	_ = json.Unmarshal(r.Links, &p.Links)

	var cover models.CoverConfig
	if len(r.CoverConfig) > 0 && json.Unmarshal(r.CoverConfig, &cover) == nil && cover.Type != "" {
		p.CoverConfig = &cover
	}
	return p.Normalized()
}

// NewProjectRecord encodes a domain project for insertion.
func NewProjectRecord(p models.Project) ProjectRecord {
	p = p.Normalized()
	r := ProjectRecord{
		ID:               p.ID,
		Name:             mustJSON(p.Name),
		ShortDescription: mustJSON(p.ShortDescription),
		Technologies:     mustJSON(p.Technologies),
		Media:            mustJSON(p.Media),
		Buttons:          mustJSON(p.Buttons),
		Links:            mustJSON(p.Links),
		CoverConfig:      mustJSON(p.CoverConfig),
		IsInGallery:      p.IsInGallery,
		CreatedAt:        p.CreatedAt,
	}
	if p.CoverImage != "" {
		r.CoverImage = &p.CoverImage
	}
	return r
}

// patchColumns converts a partial update into the column map passed to gorm.
func patchColumns(patch models.ProjectPatch) map[string]any {
	cols := map[string]any{}
	if patch.Name != nil {
		cols["name"] = mustJSON(*patch.Name)
	}
	if patch.ShortDescription != nil {
		cols["short_description"] = mustJSON(*patch.ShortDescription)
	}
	if patch.Technologies != nil {
		cols["technologies"] = mustJSON(nonNil(*patch.Technologies))
	}
	if patch.Media != nil {
		cols["media"] = mustJSON(nonNil(*patch.Media))
	}
	if patch.Buttons != nil {
		cols["buttons"] = mustJSON(nonNil(*patch.Buttons))
	}
	if patch.Links != nil {
		cols["links"] = mustJSON(*patch.Links)
	}
	if patch.CoverImage != nil {
		if *patch.CoverImage == "" {
			cols["cover_image"] = nil
		} else {
			cols["cover_image"] = *patch.CoverImage
		}
	}
	if patch.CoverConfig != nil {
		cols["cover_config"] = mustJSON(*patch.CoverConfig)
	}
	if patch.IsInGallery != nil {
		cols["is_in_gallery"] = *patch.IsInGallery
	}
	return cols
}

// technologies were once stored as a comma separated string
func decodeTechnologies(raw datatypes.JSON) []string {
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var joined string
	if json.Unmarshal(raw, &joined) != nil {
		return nil
	}
	return models.ParseTechnologies(joined)
}

func decodeList[T any](raw datatypes.JSON) []T {
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if json.Unmarshal(item, &v) == nil {
			out = append(out, v)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}
