package render

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() models.Project {
	scale := 1.5
	return models.Project{
		ID:               "atlas-ab12c",
		Name:             models.LocalizedText{EN: "Atlas", RU: "Атлас"},
		ShortDescription: models.LocalizedText{EN: "Maps for everyone", RU: "Карты для всех"},
		Technologies:     []string{"Go", "PostGIS"},
		Media: []models.MediaItem{
			{Type: models.MediaImage, URL: "https://cdn.example.com/1.png", Scale: &scale},
			{Type: models.MediaImage, URL: "https://cdn.example.com/2.png"},
		},
		Buttons: []models.ActionButton{
			{URL: "https://github.com/atlas", Icon: models.IconGithub, Label: &models.LocalizedText{EN: "Code", RU: "Код"}},
			{URL: "https://atlas.example.com", Icon: "unknown", LabelKey: models.LabelKeyDemo},
		},
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func mustHTML(t *testing.T, c *Card) string {
	t.Helper()
	out, err := c.HTML()
	require.NoError(t, err)
	return out
}

func TestRender_PreviewMatchesHoveredCard(t *testing.T) {
	p := sampleProject()

	public := Render(p, "en", InteractionState{Hovered: true}, Options{Rand: rand.New(rand.NewSource(1))})
	preview := Render(p, "en", InteractionState{}, Options{ForceHover: true, DisableGestures: true, Rand: rand.New(rand.NewSource(2))})

	assert.Equal(t, mustHTML(t, public), mustHTML(t, preview))
	assert.True(t, public.Behavior.GesturesEnabled)
	assert.False(t, preview.Behavior.GesturesEnabled)
}

func TestRender_StaticStateShowsCoverAndName(t *testing.T) {
	out := mustHTML(t, Render(sampleProject(), "ru", InteractionState{}, Options{}))

	assert.Contains(t, out, "Атлас")
	assert.Contains(t, out, "gallery-card__cover")
	assert.NotContains(t, out, "Карты для всех")
	assert.NotContains(t, out, "gallery-card__tags")
	assert.NotContains(t, out, "action-button")
}

func TestRender_ExpandedState(t *testing.T) {
	out := mustHTML(t, Render(sampleProject(), "en-GB", InteractionState{Hovered: true}, Options{}))

	assert.Contains(t, out, "Maps for everyone")
	assert.Contains(t, out, "-webkit-line-clamp: 2")
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, `data-icon="github"`)
	assert.Contains(t, out, `data-icon="external"`)
	assert.Contains(t, out, ">Code<")
	assert.Contains(t, out, ">Demo<")

	goColor := ColorForTag("Go")
	assert.Contains(t, out, "background-color: "+goColor.Background+"; color: "+goColor.Text)
}

func TestRender_ButtonsCappedAndCallbacks(t *testing.T) {
	p := sampleProject()
	for i := 0; i < 3; i++ {
		p.Buttons = append(p.Buttons, models.ActionButton{URL: "https://x.example.com"})
	}

	var selected string
	var pressed []int
	card := Render(p, "en", InteractionState{Hovered: true}, Options{
		OnSelect: func(id string) { selected = id },
		OnButton: func(id string, i int) { pressed = append(pressed, i) },
	})

	assert.Equal(t, 3, strings.Count(mustHTML(t, card), `class="action-button"`))

	card.Select()
	assert.Equal(t, p.ID, selected)
	require.NoError(t, card.PressButton(2))
	assert.Error(t, card.PressButton(3))
	assert.Equal(t, []int{2}, pressed)
}

func TestRender_StaticCardHasNoPressableButtons(t *testing.T) {
	card := Render(sampleProject(), "en", InteractionState{}, Options{})
	assert.Error(t, card.PressButton(0))
}

func TestRender_TransformedImageUsesContain(t *testing.T) {
	out := mustHTML(t, Render(sampleProject(), "en", InteractionState{}, Options{}))

	assert.Contains(t, out, "object-fit: contain; transform: translate(0px, 0px) scale(1.5); transform-origin: center")
	assert.Contains(t, out, "object-fit: cover; transform: translate(0px, 0px) scale(1); transform-origin: center")
}

func TestRender_SlideIndexWraps(t *testing.T) {
	out := mustHTML(t, Render(sampleProject(), "en", InteractionState{Slide: 3}, Options{}))
	assert.Contains(t, out, `class="slide is-active" data-index="1"`)
	assert.Contains(t, out, `class="slide" data-index="0"`)
}

func TestRender_SingleVideo(t *testing.T) {
	p := sampleProject()
	p.Media = []models.MediaItem{{Type: models.MediaVideo, URL: "https://cdn.example.com/v.mp4", Thumbnail: "https://cdn.example.com/v.jpg"}}

	card := Render(p, "en", InteractionState{}, Options{})
	out := mustHTML(t, card)

	assert.Contains(t, out, "<video")
	assert.Contains(t, out, `poster="https://cdn.example.com/v.jpg"`)
	assert.False(t, card.Behavior.Autoplay)
}

func TestRender_GeneratedCover(t *testing.T) {
	p := sampleProject()
	p.Technologies = []string{"Go", "SQL", "Redis", "Kafka"}
	p.CoverConfig = &models.CoverConfig{
		Type:     models.CoverGenerated,
		Gradient: "from-indigo-500 to-pink-500",
		Text:     &models.LocalizedText{EN: "ATLAS"},
		FontSize: 48,
	}

	en := Render(p, "en", InteractionState{}, Options{})
	out := mustHTML(t, en)
	assert.Contains(t, out, `class="generated-cover from-indigo-500 to-pink-500"`)
	assert.Contains(t, out, "font-size: 48px; font-weight: 900")
	assert.Contains(t, out, ">ATLAS<")
	assert.Equal(t, 3, strings.Count(out, `class="generated-cover__tag"`))
	assert.NotContains(t, out, "cdn.example.com")
	assert.False(t, en.Behavior.Autoplay)

	ru := mustHTML(t, Render(p, "ru", InteractionState{}, Options{}))
	assert.Contains(t, ru, `class="generated-cover__text" style="font-size: 48px; font-weight: 900">Атлас<`)
}

func TestRender_GeneratedWithoutGradientFallsBack(t *testing.T) {
	p := sampleProject()
	p.Media = nil
	p.CoverImage = "https://cdn.example.com/cover.png"
	p.CoverConfig = &models.CoverConfig{Type: models.CoverGenerated}

	out := mustHTML(t, Render(p, "en", InteractionState{}, Options{}))
	assert.Contains(t, out, `src="https://cdn.example.com/cover.png"`)
	assert.NotContains(t, out, "generated-cover")
}

func TestRender_Placeholder(t *testing.T) {
	p := sampleProject()
	p.Media = nil

	out := mustHTML(t, Render(p, "ru", InteractionState{}, Options{}))
	assert.Contains(t, out, "Нет медиа")

	custom := mustHTML(t, Render(p, "en", InteractionState{}, Options{
		Translate: func(key, lang string) string { return key + ":" + lang },
	}))
	assert.Contains(t, custom, NoMediaKey+":en")
}

func TestSlideInterval(t *testing.T) {
	assert.Equal(t, MinSlideInterval, SlideInterval(nil))

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		d := SlideInterval(r)
		assert.GreaterOrEqual(t, d, MinSlideInterval)
		assert.Less(t, d, MaxSlideInterval)
	}
}

func TestRender_IntervalIsDeterministicForSeed(t *testing.T) {
	p := sampleProject()
	a := Render(p, "en", InteractionState{}, Options{Rand: rand.New(rand.NewSource(7))})
	b := Render(p, "en", InteractionState{}, Options{Rand: rand.New(rand.NewSource(7))})

	assert.True(t, a.Behavior.Autoplay)
	assert.Equal(t, a.Behavior.SlideInterval, b.Behavior.SlideInterval)
}

func TestRenderGallery(t *testing.T) {
	a, b := sampleProject(), sampleProject()
	b.ID = "other-xy12z"

	section := RenderGallery([]models.Project{a, b}, "en", Options{})
	card := &Card{Root: section}
	out := mustHTML(t, card)

	assert.True(t, strings.HasPrefix(out, `<section class="gallery">`))
	assert.Equal(t, 2, strings.Count(out, "<article"))
}

func TestRender_AdminAffordancesNeedSession(t *testing.T) {
	p := sampleProject()
	p.IsInGallery = true

	anon := Render(p, "en", InteractionState{}, Options{})
	assert.NotContains(t, mustHTML(t, anon), "gallery-card__admin")
	assert.ErrorIs(t, anon.Edit(), errs.ErrUnauthorized)
	assert.ErrorIs(t, anon.ToggleGallery(), errs.ErrUnauthorized)

	var edited string
	var toggled *bool
	admin := Render(p, "en", InteractionState{}, Options{
		Session:         models.Session{IsAuthenticated: true, Subject: "owner"},
		OnEdit:          func(id string) { edited = id },
		OnToggleGallery: func(id string, on bool) { toggled = &on },
	})
	out := mustHTML(t, admin)
	assert.Contains(t, out, `data-action="edit"`)
	assert.Contains(t, out, `data-action="toggle-gallery" aria-label="gallery" aria-pressed="true"`)

	require.NoError(t, admin.Edit())
	assert.Equal(t, p.ID, edited)
	require.NoError(t, admin.ToggleGallery())
	require.NotNil(t, toggled)
	assert.False(t, *toggled)
}
