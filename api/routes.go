package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes serves the catalog read path from the cache.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.identify)

		r.Get("/health", handlers.healthHandler.getHealth())

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())

		r.Get("/gallery", handlers.galleryHandler.getGallery())
		r.Get("/gallery/cards", handlers.galleryHandler.getGalleryCards())
		r.Get("/project/{projectID}/card", handlers.galleryHandler.getProjectCard())
	})
}

// setupAdminRoutes sets up the write path behind authentication
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(requireSession(handlers.catalog))

		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())
		r.Put("/project/{projectID}/gallery", handlers.projectHandler.setGallery())
		r.Patch("/project/{projectID}/media/{index}/transform", handlers.projectHandler.transformMedia())
		r.Post("/project/{projectID}/media/reorder", handlers.projectHandler.reorderMedia())
		r.Post("/project/{projectID}/media", handlers.mediaHandler.uploadProjectMedia())

		r.Post("/media", handlers.mediaHandler.uploadMedia())
		r.Post("/preview", handlers.galleryHandler.preview())
		r.Post("/refresh", handlers.projectHandler.refresh())
	})
}
