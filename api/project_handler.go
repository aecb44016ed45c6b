package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
	"github.com/quonaro/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxProjectBody = 1 << 20

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *services.Catalog
}

func newProjectHandler(catalog *services.Catalog) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   catalog,
	}
}

// getAllProjects lists the cached catalog, newest first
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects := h.catalog.Projects()
		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// getProject returns one cached project
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.catalog.Find(chi.URLParam(r, "projectID"))
		if !ok {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject validates and inserts a project; the id is derived from name.en
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.Project true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Gallery is full"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project models.Project
		if !h.decode(w, r, "project", &project) {
			return
		}

		saved, err := h.catalog.Save(r.Context(), "", project)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectID", saved.ID).Str("subject", ctxGetSession(r.Context()).Subject).Msg("project created")
		h.responder.WriteCreated(w, saved)
	}
}

// updateProject replaces the editable fields of a project; only changed fields are written
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param project body models.Project true "Updated project data"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		var project models.Project
		if !h.decode(w, r, "project", &project) {
			return
		}

		saved, err := h.catalog.Save(r.Context(), projectID, project)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, saved)
	}
}

// deleteProject removes a project record; its media stay in the bucket
// @Summary Delete project
// @Tags Projects
// @Param projectID path string true "Project ID"
// @Success 200 {object} map[string]string
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		if err := h.catalog.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectID", projectID).Str("subject", ctxGetSession(r.Context()).Subject).Msg("project deleted")
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// setGallery toggles gallery membership
// @Summary Toggle gallery membership
// @Tags Projects
// @Accept json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 409 {object} ErrorResponse "Gallery is full"
// @Router /project/{projectID}/gallery [put]
func (h projectHandler) setGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req galleryRequest
		if !h.decode(w, r, "gallery", &req) {
			return
		}
		if req.IsInGallery == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("is_in_gallery"))
			return
		}

		saved, err := h.catalog.ToggleGallery(r.Context(), chi.URLParam(r, "projectID"), *req.IsInGallery)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, saved)
	}
}

// transformMedia edits the pan/zoom of one image slide
// @Summary Transform media
// @Tags Media
// @Accept json
// @Param projectID path string true "Project ID"
// @Param index path int true "Media index"
// @Success 200 {object} models.Project
// @Router /project/{projectID}/media/{index}/transform [patch]
func (h projectHandler) transformMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("index", "must be an integer"))
			return
		}

		var transform services.MediaTransform
		if !h.decode(w, r, "transform", &transform) {
			return
		}

		saved, err := h.catalog.TransformMedia(r.Context(), chi.URLParam(r, "projectID"), index, transform)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, saved)
	}
}

// reorderMedia moves one media item, keeping the others in order
// @Summary Reorder media
// @Tags Media
// @Accept json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project
// @Router /project/{projectID}/media/reorder [post]
func (h projectHandler) reorderMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if !h.decode(w, r, "reorder", &req) {
			return
		}
		if req.From == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("from"))
			return
		}
		if req.To == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("to"))
			return
		}

		saved, err := h.catalog.ReorderMedia(r.Context(), chi.URLParam(r, "projectID"), *req.From, *req.To)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, saved)
	}
}

// refresh reloads the cache from the store
// @Summary Refresh catalog cache
// @Tags Projects
// @Success 200 {object} ProjectCollection
// @Router /refresh [post]
func (h projectHandler) refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.catalog.Refresh(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projects := h.catalog.Projects()
		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

func (h projectHandler) decode(w http.ResponseWriter, r *http.Request, payloadType string, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProjectBody)).Decode(dst); err != nil {
		h.logger.Debug().Err(err).Str("payload", payloadType).Msg("failed to decode request body")
		h.responder.WriteError(w, errs.NewMalformedPayloadError(payloadType, err))
		return false
	}
	return true
}
