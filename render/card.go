package render

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Slideshow interval bounds; each card draws its own interval once so that
// neighbouring cards do not advance in sync.
const (
	MinSlideInterval = 5 * time.Second
	MaxSlideInterval = 8 * time.Second

	maxCardButtons  = 3
	maxCoverTechs   = 3
	descriptionLine = 2
)

// InteractionState is what the viewer is doing with the card.
type InteractionState struct {
	Hovered bool
	Slide   int
}

// Options parameterize one card. Rand seeds the slideshow interval; with a nil Rand
// the interval is MinSlideInterval. An authenticated Session adds the admin
// affordances (edit, gallery star).
type Options struct {
	ForceHover      bool
	DisableGestures bool
	Translate       Translator
	Rand            *rand.Rand
	Session         models.Session
	OnSelect        func(projectID string)
	OnButton        func(projectID string, index int)
	OnEdit          func(projectID string)
	OnToggleGallery func(projectID string, on bool)
}

// Behavior holds everything about a card that is not part of its visual tree.
type Behavior struct {
	SlideInterval   time.Duration
	Autoplay        bool
	GesturesEnabled bool
}

// Card is a rendered project: the visual tree plus its behavior.
type Card struct {
	Root     *html.Node
	Behavior Behavior

	projectID string
	buttons   int
	admin     bool
	inGallery bool
	onSelect  func(string)
	onButton  func(string, int)
	onEdit    func(string)
	onToggle  func(string, bool)
}

// Render projects a project into a gallery card. It has no side effects; callbacks in
// opts are only invoked through Card.Select and Card.PressButton.
func Render(p models.Project, lang string, state InteractionState, opts Options) *Card {
	lang = models.LanguageCode(lang)
	t := opts.Translate
	if t == nil {
		t = DefaultTranslator
	}
	expanded := state.Hovered || opts.ForceHover

	class := "gallery-card"
	if expanded {
		class += " is-expanded"
	}
	root := element(atom.Article, "class", class, "data-project-id", p.ID)
	root.AppendChild(renderCover(p, lang, state.Slide, t))
	if opts.Session.IsAuthenticated {
		root.AppendChild(renderAdminActions(p))
	}

	body := element(atom.Div, "class", "gallery-card__body")
	title := element(atom.H3, "class", "gallery-card__title")
	title.AppendChild(text(p.Name.Resolve(lang, "")))
	body.AppendChild(title)

	shown := 0
	if expanded {
		body.AppendChild(renderDescription(p, lang))
		if tags := renderTags(p.Technologies); tags != nil {
			body.AppendChild(tags)
		}
		var actions *html.Node
		actions, shown = renderButtons(p.Buttons, lang, t)
		if actions != nil {
			body.AppendChild(actions)
		}
	}
	root.AppendChild(body)

	card := &Card{
		Root: root,
		Behavior: Behavior{
			GesturesEnabled: !opts.DisableGestures,
		},
		projectID: p.ID,
		buttons:   shown,
		admin:     opts.Session.IsAuthenticated,
		inGallery: p.IsInGallery,
		onSelect:  opts.OnSelect,
		onButton:  opts.OnButton,
		onEdit:    opts.OnEdit,
		onToggle:  opts.OnToggleGallery,
	}
	if len(p.Media) > 1 && !p.CoverConfig.Generated() {
		card.Behavior.Autoplay = true
		card.Behavior.SlideInterval = SlideInterval(opts.Rand)
	}
	return card
}

// SlideInterval draws an interval in [MinSlideInterval, MaxSlideInterval).
func SlideInterval(r *rand.Rand) time.Duration {
	if r == nil {
		return MinSlideInterval
	}
	return MinSlideInterval + time.Duration(r.Int63n(int64(MaxSlideInterval-MinSlideInterval)))
}

// Select reports a click on the card to the caller.
func (c *Card) Select() {
	if c.onSelect != nil {
		c.onSelect(c.projectID)
	}
}

// PressButton reports a click on a visible action button.
func (c *Card) PressButton(index int) error {
	if index < 0 || index >= c.buttons {
		return fmt.Errorf("button %d is not shown", index)
	}
	if c.onButton != nil {
		c.onButton(c.projectID, index)
	}
	return nil
}

// Edit asks the caller to open the editor. Only available to an authenticated session.
func (c *Card) Edit() error {
	if !c.admin {
		return errs.Unauthorized
	}
	if c.onEdit != nil {
		c.onEdit(c.projectID)
	}
	return nil
}

// ToggleGallery asks the caller to flip gallery membership; the cap is enforced there.
func (c *Card) ToggleGallery() error {
	if !c.admin {
		return errs.Unauthorized
	}
	if c.onToggle != nil {
		c.onToggle(c.projectID, !c.inGallery)
	}
	return nil
}

func (c *Card) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, c.Root); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

func (c *Card) HTML() (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, c.Root); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderGallery renders one card per project, wrapped in a section.
func RenderGallery(projects []models.Project, lang string, opts Options) *html.Node {
	section := element(atom.Section, "class", "gallery")
	for _, p := range projects {
		section.AppendChild(Render(p, lang, InteractionState{}, opts).Root)
	}
	return section
}

func renderAdminActions(p models.Project) *html.Node {
	bar := element(atom.Div, "class", "gallery-card__admin")
	bar.AppendChild(element(atom.Button,
		"type", "button", "class", "admin-action", "data-action", "edit", "aria-label", "edit"))
	bar.AppendChild(element(atom.Button,
		"type", "button", "class", "admin-action", "data-action", "toggle-gallery",
		"aria-label", "gallery", "aria-pressed", strconv.FormatBool(p.IsInGallery)))
	return bar
}

func renderDescription(p models.Project, lang string) *html.Node {
	desc := element(atom.P,
		"class", "gallery-card__description",
		"style", fmt.Sprintf("display: -webkit-box; -webkit-box-orient: vertical; -webkit-line-clamp: %d; overflow: hidden", descriptionLine),
	)
	desc.AppendChild(text(p.ShortDescription.Resolve(lang, "")))
	return desc
}

func renderTags(technologies []string) *html.Node {
	if len(technologies) == 0 {
		return nil
	}
	list := element(atom.Ul, "class", "gallery-card__tags")
	for _, tech := range technologies {
		c := ColorForTag(tech)
		li := element(atom.Li, "class", "tag", "style", "background-color: "+c.Background+"; color: "+c.Text)
		li.AppendChild(text(tech))
		list.AppendChild(li)
	}
	return list
}

func renderButtons(buttons []models.ActionButton, lang string, t Translator) (*html.Node, int) {
	if len(buttons) == 0 {
		return nil, 0
	}
	if len(buttons) > maxCardButtons {
		buttons = buttons[:maxCardButtons]
	}
	actions := element(atom.Div, "class", "gallery-card__actions")
	for i, b := range buttons {
		icon := string(b.Icon.OrDefault())
		a := element(atom.A,
			"class", "action-button",
			"href", b.URL,
			"target", "_blank",
			"rel", "noopener noreferrer",
			"data-icon", icon,
			"data-index", strconv.Itoa(i),
		)
		a.AppendChild(element(atom.Span, "class", "icon icon-"+icon, "aria-hidden", "true"))
		label := element(atom.Span, "class", "action-button__label")
		label.AppendChild(text(ButtonLabel(b, lang, t)))
		a.AppendChild(label)
		actions.AppendChild(a)
	}
	return actions, len(buttons)
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
