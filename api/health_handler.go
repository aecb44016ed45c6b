package api

import (
	"net/http"
	"time"

	"github.com/quonaro/portfolio-backend/database"
	"github.com/quonaro/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	catalog     *services.Catalog
	db          database.Database
	startupTime time.Time
}

func newHealthHandler(catalog *services.Catalog, db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		catalog:     catalog,
		db:          db,
		startupTime: startupTime,
	}
}

// getHealth reports store connectivity and cache state
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.db.Ping(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		cache := h.catalog.Cache()
		resp := healthResponse{
			Status:       "ok",
			Uptime:       time.Since(h.startupTime).Round(time.Second).String(),
			ReadOnly:     h.db.ReadOnly(),
			Projects:     len(cache.Projects()),
			CacheLoading: cache.Loading(),
		}
		if err := cache.Err(); err != nil {
			resp.Status = "degraded"
			resp.CacheError = err.Error()
		}
		h.responder.WriteJSON(w, resp)
	}
}
