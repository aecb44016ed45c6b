package api

import (
	"github.com/quonaro/portfolio-backend/database"
	"github.com/quonaro/portfolio-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(catalog *services.Catalog, db database.Database, router router) *routeHandlers {
	return &routeHandlers{
		catalog:        catalog,
		projectHandler: newProjectHandler(catalog),
		galleryHandler: newGalleryHandler(catalog, router.newRand),
		mediaHandler:   newMediaHandler(catalog),
		healthHandler:  newHealthHandler(catalog, db, router.startupTime),
	}
}
