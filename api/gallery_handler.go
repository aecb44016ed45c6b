package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
	"github.com/quonaro/portfolio-backend/render"
	"github.com/quonaro/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
)

var languageMatcher = language.NewMatcher([]language.Tag{language.English, language.Russian})

// requestLanguage prefers ?lang=, then Accept-Language, then English.
func requestLanguage(r *http.Request) string {
	if q := r.URL.Query().Get("lang"); q != "" {
		if code := models.LanguageCode(q); code == models.LangEN || code == models.LangRU {
			return code
		}
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return models.LangEN
	}
	tag, _, _ := languageMatcher.Match(tags...)
	base, _ := tag.Base()
	return base.String()
}

type galleryHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *services.Catalog
	newRand   func() *rand.Rand
}

func newGalleryHandler(catalog *services.Catalog, newRand func() *rand.Rand) galleryHandler {
	logger := log.With().Str("handlerName", "galleryHandler").Logger()

	return galleryHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   catalog,
		newRand:   newRand,
	}
}

// getGallery lists the gallery members as JSON
// @Summary Get gallery
// @Tags Gallery
// @Produce json
// @Success 200 {object} ProjectCollection
// @Router /gallery [get]
func (h galleryHandler) getGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects := h.catalog.Gallery()
		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// getGalleryCards renders the static gallery cards
// @Summary Render gallery
// @Tags Gallery
// @Produce html
// @Param lang query string false "en or ru"
// @Router /gallery/cards [get]
func (h galleryHandler) getGalleryCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		root := render.RenderGallery(h.catalog.Gallery(), requestLanguage(r), render.Options{
			Rand:    h.newRand(),
			Session: ctxGetSession(r.Context()),
		})
		h.writeNode(w, root)
	}
}

// getProjectCard renders one card, expanded when ?hover=true
// @Summary Render project card
// @Tags Gallery
// @Produce html
// @Param projectID path string true "Project ID"
// @Router /project/{projectID}/card [get]
func (h galleryHandler) getProjectCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.catalog.Find(chi.URLParam(r, "projectID"))
		if !ok {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		state := render.InteractionState{Hovered: r.URL.Query().Get("hover") == "true"}
		card := render.Render(project, requestLanguage(r), state, render.Options{
			Rand:    h.newRand(),
			Session: ctxGetSession(r.Context()),
		})
		h.writeCard(w, card)
	}
}

// preview renders an unsaved draft exactly as the expanded public card
// @Summary Preview project card
// @Tags Gallery
// @Accept json
// @Produce html
// @Param project body models.Project true "Draft"
// @Router /preview [post]
func (h galleryHandler) preview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft models.Project
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProjectBody)).Decode(&draft); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project", err))
			return
		}

		card := render.Render(draft.Normalized(), requestLanguage(r), render.InteractionState{}, render.Options{
			ForceHover:      true,
			DisableGestures: true,
			Rand:            h.newRand(),
		})
		h.writeCard(w, card)
	}
}

func (h galleryHandler) writeCard(w http.ResponseWriter, card *render.Card) {
	if card.Behavior.Autoplay {
		w.Header().Set("X-Slide-Interval-Ms", formatMillis(card.Behavior))
	}
	h.writeNode(w, card.Root)
}

func (h galleryHandler) writeNode(w http.ResponseWriter, root *html.Node) {
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		h.responder.WriteError(w, errs.NewInternalErrorWithCause("render card", err))
		return
	}
	h.responder.WriteHTML(w, buf.Bytes())
}

func formatMillis(b render.Behavior) string {
	return strconv.FormatInt(b.SlideInterval.Milliseconds(), 10)
}
