package services

import (
	"context"
	"sync"

	"github.com/quonaro/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ProjectCache holds the current project list shared by every reader.
// Refetch replaces the list as a whole; a failed refetch keeps the previous list.
type ProjectCache struct {
	source CatalogReader
	group  singleflight.Group
	logger zerolog.Logger

	mu       sync.RWMutex
	projects []models.Project
	loading  bool
	err      error
	// started counts fetches begun
	started uint64
}

func NewProjectCache(source CatalogReader) *ProjectCache {
	return &ProjectCache{
		source: source,
		logger: log.With().Str("component", "projectCache").Logger(),
	}
}

// Projects returns a copy of the cached list.
func (c *ProjectCache) Projects() []models.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Project, 0, len(c.projects))
	for _, p := range c.projects {
		out = append(out, p.Normalized())
	}
	return out
}

// Find looks a project up in the cached list.
func (c *ProjectCache) Find(id string) (models.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.projects {
		if p.ID == id {
			return p.Normalized(), true
		}
	}
	return models.Project{}, false
}

// Gallery returns the gallery members in catalog order, at most MaxGalleryProjects.
func (c *ProjectCache) Gallery() []models.Project {
	var out []models.Project
	for _, p := range c.Projects() {
		if p.IsInGallery && len(out) < models.MaxGalleryProjects {
			out = append(out, p)
		}
	}
	return out
}

func (c *ProjectCache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the error of the last refetch, nil after a successful one.
func (c *ProjectCache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Refetch loads the full list from the store. Concurrent calls share one fetch, but
// a call never settles for a fetch that started before it was made: that fetch may
// have read the store ahead of the caller's write, so another one is run.
func (c *ProjectCache) Refetch(ctx context.Context) error {
	c.mu.RLock()
	before := c.started
	c.mu.RUnlock()

	for {
		v, err, shared := c.group.Do("projects", func() (interface{}, error) {
			c.mu.Lock()
			c.started++
			generation := c.started
			c.loading = true
			c.mu.Unlock()

			projects, err := c.source.FetchAll(ctx)

			c.mu.Lock()
			defer c.mu.Unlock()
			c.loading = false
			if err != nil {
				c.err = err
				return generation, err
			}
			c.projects = projects
			c.err = nil
			return generation, nil
		})
		if generation, _ := v.(uint64); generation <= before {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			continue
		}
		if err != nil {
			c.logger.Error().Err(err).Bool("shared", shared).Msg("refetch failed, keeping previous list")
			return err
		}
		return nil
	}
}
