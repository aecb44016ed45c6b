package models

import (
	"strings"
	"time"
)

const (
	// MaxButtons is the hard cap on action buttons per project.
	MaxButtons = 3
	// MaxGalleryProjects is the cap on home-page gallery members.
	MaxGalleryProjects = 7

	MinScale = 0.1
	MaxScale = 5.0
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type ObjectFit string

const (
	FitCover   ObjectFit = "cover"
	FitContain ObjectFit = "contain"
)

type CoverType string

const (
	CoverImage     CoverType = "image"
	CoverGenerated CoverType = "generated"
)

type ButtonIcon string

const (
	IconGithub   ButtonIcon = "github"
	IconExternal ButtonIcon = "external"
	IconDocs     ButtonIcon = "docs"
	IconDownload ButtonIcon = "download"
	IconPlay     ButtonIcon = "play"
	IconYoutube  ButtonIcon = "youtube"
	IconFigma    ButtonIcon = "figma"
	IconBook     ButtonIcon = "book"
	IconMonitor  ButtonIcon = "monitor"
)

var knownIcons = map[ButtonIcon]bool{
	IconGithub: true, IconExternal: true, IconDocs: true,
	IconDownload: true, IconPlay: true, IconYoutube: true,
	IconFigma: true, IconBook: true, IconMonitor: true,
}

// Known reports whether the icon is one of the supported kinds.
func (i ButtonIcon) Known() bool {
	return knownIcons[i]
}

// OrDefault maps unknown icons to IconExternal.
func (i ButtonIcon) OrDefault() ButtonIcon {
	if i.Known() {
		return i
	}
	return IconExternal
}

type FontFamily string

const (
	FontGolos FontFamily = "Golos"
	FontInter FontFamily = "Inter"
)

const DefaultCoverFontWeight = 900

// Legacy button label keys resolved through the translator.
const (
	LabelKeyDownload = "common.download"
	LabelKeyDemo     = "common.demo"
	LabelKeyDocs     = "common.docs"
	LabelKeyWatch    = "common.watch"
	LabelKeyRead     = "common.read"
	LabelKeyDesign   = "common.design"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MediaItem struct {
	Type      MediaType `json:"type" validate:"oneof=image video"`
	URL       string    `json:"url" validate:"strNotEmpty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	ObjectFit ObjectFit `json:"objectFit,omitempty" validate:"omitempty,oneof=cover contain"`
	Translate *Point    `json:"translate,omitempty"`
	Scale     *float64  `json:"scale,omitempty" validate:"omitempty,gte=0.1,lte=5"`
}

// Transformed reports whether a non-default pan or zoom is set.
func (m MediaItem) Transformed() bool {
	if m.Translate != nil && (m.Translate.X != 0 || m.Translate.Y != 0) {
		return true
	}
	return m.Scale != nil && *m.Scale != 1
}

// ScaleOrDefault returns the zoom factor, 1 when unset.
func (m MediaItem) ScaleOrDefault() float64 {
	if m.Scale == nil {
		return 1
	}
	return *m.Scale
}

// TranslateOrDefault returns the pan offset, origin when unset.
func (m MediaItem) TranslateOrDefault() Point {
	if m.Translate == nil {
		return Point{}
	}
	return *m.Translate
}

func (m MediaItem) clone() MediaItem {
	out := m
	if m.Translate != nil {
		p := *m.Translate
		out.Translate = &p
	}
	if m.Scale != nil {
		s := *m.Scale
		out.Scale = &s
	}
	return out
}

type ActionButton struct {
	URL      string         `json:"url" validate:"strNotEmpty"`
	Icon     ButtonIcon     `json:"icon"`
	Label    *LocalizedText `json:"label,omitempty"`
	LabelKey string         `json:"labelKey,omitempty"`
}

// NewActionButton returns the default button appended by the editor.
func NewActionButton() ActionButton {
	return ActionButton{
		Icon:  IconExternal,
		Label: &LocalizedText{EN: "Link", RU: "Ссылка"},
	}
}

func (b ActionButton) clone() ActionButton {
	out := b
	if b.Label != nil {
		l := *b.Label
		out.Label = &l
	}
	return out
}

type ProjectLinks struct {
	Demo   string `json:"demo,omitempty"`
	Github string `json:"github,omitempty"`
	Docs   string `json:"docs,omitempty"`
}

type CoverConfig struct {
	Type       CoverType      `json:"type" validate:"oneof=image generated"`
	Gradient   string         `json:"gradient,omitempty"`
	Text       *LocalizedText `json:"text,omitempty"`
	FontSize   int            `json:"fontSize,omitempty" validate:"gte=0"`
	FontWeight int            `json:"fontWeight,omitempty" validate:"gte=0"`
	FontFamily FontFamily     `json:"fontFamily,omitempty" validate:"omitempty,oneof=Golos Inter"`
}

// Generated reports whether the generated gradient cover should be rendered.
func (c *CoverConfig) Generated() bool {
	return c != nil && c.Type == CoverGenerated && c.Gradient != ""
}

func (c *CoverConfig) clone() *CoverConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Text != nil {
		t := *c.Text
		out.Text = &t
	}
	return &out
}

// Project is the single catalog entity.
type Project struct {
	ID               string         `json:"id"`
	Name             LocalizedText  `json:"name"`
	ShortDescription LocalizedText  `json:"shortDescription"`
	Technologies     []string       `json:"technologies"`
	Media            []MediaItem    `json:"media" validate:"dive"`
	Buttons          []ActionButton `json:"buttons" validate:"max=3,dive"`
	Links            ProjectLinks   `json:"links"`
	CoverImage       string         `json:"cover_image,omitempty"`
	CoverConfig      *CoverConfig   `json:"cover_config,omitempty"`
	IsInGallery      bool           `json:"is_in_gallery"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Normalized returns a deep copy with non-nil lists, so the value is safe to edit.
func (p Project) Normalized() Project {
	out := p
	out.Technologies = append(make([]string, 0, len(p.Technologies)), p.Technologies...)
	out.Media = make([]MediaItem, 0, len(p.Media))
	for _, m := range p.Media {
		out.Media = append(out.Media, m.clone())
	}
	out.Buttons = make([]ActionButton, 0, len(p.Buttons))
	for _, b := range p.Buttons {
		out.Buttons = append(out.Buttons, b.clone())
	}
	out.CoverConfig = p.CoverConfig.clone()
	return out
}

// CountInGallery counts gallery members, skipping the project with excludeID.
func CountInGallery(projects []Project, excludeID string) int {
	n := 0
	for _, p := range projects {
		if p.IsInGallery && p.ID != excludeID {
			n++
		}
	}
	return n
}

// ProjectPatch carries the top-level fields of a partial update; nil means untouched.
type ProjectPatch struct {
	Name             *LocalizedText  `json:"name,omitempty"`
	ShortDescription *LocalizedText  `json:"shortDescription,omitempty"`
	Technologies     *[]string       `json:"technologies,omitempty"`
	Media            *[]MediaItem    `json:"media,omitempty"`
	Buttons          *[]ActionButton `json:"buttons,omitempty"`
	Links            *ProjectLinks   `json:"links,omitempty"`
	CoverImage       *string         `json:"cover_image,omitempty"`
	CoverConfig      **CoverConfig   `json:"cover_config,omitempty"`
	IsInGallery      *bool           `json:"is_in_gallery,omitempty"`
}

func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.ShortDescription == nil && p.Technologies == nil &&
		p.Media == nil && p.Buttons == nil && p.Links == nil &&
		p.CoverImage == nil && p.CoverConfig == nil && p.IsInGallery == nil
}

// Apply writes every set field of the patch onto project.
func (p ProjectPatch) Apply(project *Project) {
	if p.Name != nil {
		project.Name = *p.Name
	}
	if p.ShortDescription != nil {
		project.ShortDescription = *p.ShortDescription
	}
	if p.Technologies != nil {
		project.Technologies = *p.Technologies
	}
	if p.Media != nil {
		project.Media = *p.Media
	}
	if p.Buttons != nil {
		project.Buttons = *p.Buttons
	}
	if p.Links != nil {
		project.Links = *p.Links
	}
	if p.CoverImage != nil {
		project.CoverImage = *p.CoverImage
	}
	if p.CoverConfig != nil {
		project.CoverConfig = *p.CoverConfig
	}
	if p.IsInGallery != nil {
		project.IsInGallery = *p.IsInGallery
	}
}

// Session is the authentication state handed to admin operations.
type Session struct {
	IsAuthenticated bool
	Subject         string
}

// ParseTechnologies splits a comma separated tag list, trimming and dropping empties.
func ParseTechnologies(input string) []string {
	out := []string{}
	for _, tag := range strings.Split(input, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
