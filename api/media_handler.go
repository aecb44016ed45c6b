package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxUploadMemory = 32 << 20
	uploadField     = "files"
)

var allowedMediaTypes = []string{"image/*", "video/*"}

type mediaHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *services.Catalog
}

func newMediaHandler(catalog *services.Catalog) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return mediaHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   catalog,
	}
}

// uploadMedia stores the files one by one and returns their media items
// @Summary Upload media
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Images or videos"
// @Success 200 {object} uploadResponse
// @Failure 415 {object} ErrorResponse
// @Router /media [post]
func (h mediaHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, ok := h.parseFiles(w, r)
		if !ok {
			return
		}

		items, err := h.catalog.UploadMedia(r.Context(), files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, uploadResponse{Media: items})
	}
}

// uploadProjectMedia uploads files and appends them to a project's media
// @Summary Upload project media
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param projectID path string true "Project ID"
// @Param files formData file true "Images or videos"
// @Success 200 {object} uploadResponse
// @Router /project/{projectID}/media [post]
func (h mediaHandler) uploadProjectMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, ok := h.parseFiles(w, r)
		if !ok {
			return
		}

		project, items, err := h.catalog.UploadToProject(r.Context(), chi.URLParam(r, "projectID"), files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, uploadResponse{Media: items, Project: &project})
	}
}

func (h mediaHandler) parseFiles(w http.ResponseWriter, r *http.Request) ([]services.UploadFile, bool) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
		return nil, false
	}

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		h.responder.WriteError(w, errs.NewMissingRequiredFieldError(uploadField))
		return nil, false
	}

	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(contentType, allowedMediaTypes))
			return nil, false
		}
		files = append(files, uploadFileFrom(fh, contentType))
	}
	return files, true
}

func uploadFileFrom(fh *multipart.FileHeader, contentType string) services.UploadFile {
	return services.UploadFile{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
