package api

import (
	"github.com/quonaro/portfolio-backend/models"
	"github.com/quonaro/portfolio-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	catalog        *services.Catalog
	projectHandler projectHandler
	galleryHandler galleryHandler
	mediaHandler   mediaHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"name.en"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection is the list response of the catalog endpoints.
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

type galleryRequest struct {
	IsInGallery *bool `json:"is_in_gallery"`
}

type reorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type uploadResponse struct {
	Media   []models.MediaItem `json:"media"`
	Project *models.Project    `json:"project,omitempty"`
}

type healthResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	ReadOnly     bool   `json:"read_only"`
	Projects     int    `json:"projects"`
	CacheLoading bool   `json:"cache_loading"`
	CacheError   string `json:"cache_error,omitempty"`
}
