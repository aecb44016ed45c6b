package render

import (
	"fmt"
	"strconv"

	"github.com/quonaro/portfolio-backend/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var fontStacks = map[models.FontFamily]string{
	models.FontGolos: "'Golos Text', sans-serif",
	models.FontInter: "'Inter', sans-serif",
}

// renderCover picks, in order: generated gradient, slideshow, single media item,
// cover_image, placeholder.
func renderCover(p models.Project, lang string, slide int, t Translator) *html.Node {
	cover := element(atom.Div, "class", "gallery-card__cover")
	name := p.Name.Resolve(lang, "")

	switch {
	case p.CoverConfig.Generated():
		cover.AppendChild(renderGenerated(p, lang))
	case len(p.Media) > 1:
		cover.AppendChild(renderSlideshow(p.Media, name, slide))
	case len(p.Media) == 1:
		cover.AppendChild(renderMedia(p.Media[0], name))
	case p.CoverImage != "":
		cover.AppendChild(element(atom.Img,
			"class", "media",
			"src", p.CoverImage,
			"alt", name,
			"style", "object-fit: cover",
		))
	default:
		placeholder := element(atom.Div, "class", "gallery-card__placeholder")
		placeholder.AppendChild(text(t(NoMediaKey, lang)))
		cover.AppendChild(placeholder)
	}
	return cover
}

func renderGenerated(p models.Project, lang string) *html.Node {
	cfg := p.CoverConfig
	label := ""
	if cfg.Text != nil {
		label = cfg.Text.Text(lang)
	}
	if label == "" {
		label = p.Name.Resolve(lang, "")
	}

	weight := cfg.FontWeight
	if weight == 0 {
		weight = models.DefaultCoverFontWeight
	}
	style := "font-weight: " + strconv.Itoa(weight)
	if cfg.FontSize > 0 {
		style = fmt.Sprintf("font-size: %dpx; %s", cfg.FontSize, style)
	}
	if stack, ok := fontStacks[cfg.FontFamily]; ok {
		style += "; font-family: " + stack
	}

	box := element(atom.Div, "class", "generated-cover "+cfg.Gradient)
	heading := element(atom.H3, "class", "generated-cover__text", "style", style)
	heading.AppendChild(text(label))
	box.AppendChild(heading)

	techs := p.Technologies
	if len(techs) > maxCoverTechs {
		techs = techs[:maxCoverTechs]
	}
	if len(techs) > 0 {
		row := element(atom.Div, "class", "generated-cover__tags")
		for _, tech := range techs {
			span := element(atom.Span, "class", "generated-cover__tag")
			span.AppendChild(text(tech))
			row.AppendChild(span)
		}
		box.AppendChild(row)
	}
	return box
}

func renderSlideshow(media []models.MediaItem, name string, slide int) *html.Node {
	active := slide % len(media)
	if active < 0 {
		active += len(media)
	}
	show := element(atom.Div,
		"class", "slideshow",
		"data-loop", "true",
		"data-transition", "fade",
	)
	for i, m := range media {
		class := "slide"
		if i == active {
			class += " is-active"
		}
		s := element(atom.Div, "class", class, "data-index", strconv.Itoa(i))
		s.AppendChild(renderMedia(m, fmt.Sprintf("%s %d", name, i+1)))
		show.AppendChild(s)
	}
	return show
}

func renderMedia(m models.MediaItem, alt string) *html.Node {
	if m.Type == models.MediaVideo {
		attrs := []string{"class", "media", "src", m.URL}
		if m.Thumbnail != "" {
			attrs = append(attrs, "poster", m.Thumbnail)
		}
		attrs = append(attrs, "muted", "", "loop", "", "playsinline", "", "style", "object-fit: "+string(videoFit(m)))
		return element(atom.Video, attrs...)
	}
	return element(atom.Img,
		"class", "media",
		"src", m.URL,
		"alt", alt,
		"style", imageStyle(m),
	)
}

// imageStyle translates first, then scales around the centre. A positioned frame
// is shown with contain so it is not clipped.
func imageStyle(m models.MediaItem) string {
	fit := m.ObjectFit
	if fit == "" {
		fit = models.FitCover
	}
	if m.Transformed() {
		fit = models.FitContain
	}
	tr := m.TranslateOrDefault()
	return fmt.Sprintf("object-fit: %s; transform: translate(%spx, %spx) scale(%s); transform-origin: center",
		fit, formatNumber(tr.X), formatNumber(tr.Y), formatNumber(m.ScaleOrDefault()))
}

func videoFit(m models.MediaItem) models.ObjectFit {
	if m.ObjectFit == "" {
		return models.FitCover
	}
	return m.ObjectFit
}
