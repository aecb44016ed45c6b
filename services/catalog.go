package services

import (
	"context"
	"errors"
	"sync"

	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Catalog runs the write path and keeps the cache in step with the store:
// every mutation attempt is followed by a full refetch. Writes run one at a time,
// so a read-check-write such as the gallery cap cannot interleave with another.
type Catalog struct {
	store  CatalogStore
	cache  *ProjectCache
	logger zerolog.Logger

	writeMu sync.Mutex
}

func NewCatalog(store CatalogStore, cache *ProjectCache) *Catalog {
	return &Catalog{
		store:  store,
		cache:  cache,
		logger: log.With().Str("component", "catalog").Logger(),
	}
}

func (c *Catalog) Projects() []models.Project {
	return c.cache.Projects()
}

func (c *Catalog) Gallery() []models.Project {
	return c.cache.Gallery()
}

func (c *Catalog) Find(id string) (models.Project, bool) {
	return c.cache.Find(id)
}

func (c *Catalog) Cache() *ProjectCache {
	return c.cache
}

// Authorize gates the write path on an explicitly passed session.
func (c *Catalog) Authorize(session models.Session) error {
	if !session.IsAuthenticated {
		return errs.Unauthorized
	}
	return nil
}

// Refresh reloads the cache from the store.
func (c *Catalog) Refresh(ctx context.Context) error {
	return c.cache.Refetch(ctx)
}

// Edit opens a form on the stored version of id, or on an empty project when id is "".
func (c *Catalog) Edit(ctx context.Context, id string) (*ProjectForm, error) {
	if id == "" {
		return NewProjectForm(nil), nil
	}
	project, err := c.store.Find(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.refresh(ctx)
		}
		return nil, err
	}
	return NewProjectForm(&project), nil
}

// Submit persists the form and refreshes the cache.
func (c *Catalog) Submit(ctx context.Context, form *ProjectForm) (models.Project, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.submit(ctx, form)
}

func (c *Catalog) submit(ctx context.Context, form *ProjectForm) (models.Project, error) {
	saved, err := form.Submit(ctx, c.store)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.refresh(ctx)
		}
		return models.Project{}, err
	}
	c.refresh(ctx)
	return saved, nil
}

// Save applies a complete edited project: created when id is "", updated otherwise.
func (c *Catalog) Save(ctx context.Context, id string, edited models.Project) (models.Project, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	form, err := c.Edit(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := form.Load(edited); err != nil {
		return models.Project{}, err
	}
	if edited.IsInGallery != form.Draft().IsInGallery {
		if err := form.SetInGallery(ctx, edited.IsInGallery, c.store); err != nil {
			return models.Project{}, err
		}
	}
	return c.submit(ctx, form)
}

// Delete removes the record. Uploaded media are left in the bucket.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	err := c.store.Delete(ctx, id)
	c.refresh(ctx)
	return err
}

// ToggleGallery sets gallery membership, enforcing MaxGalleryProjects.
func (c *Catalog) ToggleGallery(ctx context.Context, id string, on bool) (models.Project, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	form, err := c.Edit(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := form.SetInGallery(ctx, on, c.store); err != nil {
		return models.Project{}, err
	}
	return c.submit(ctx, form)
}

// MediaTransform is a pan/zoom edit of one slide; nil fields are left unchanged.
type MediaTransform struct {
	Scale *float64 `json:"scale,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Reset bool     `json:"reset,omitempty"`
}

func (c *Catalog) TransformMedia(ctx context.Context, id string, index int, t MediaTransform) (models.Project, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	form, err := c.Edit(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := applyTransform(form, index, t); err != nil {
		return models.Project{}, err
	}
	return c.submit(ctx, form)
}

func (c *Catalog) ReorderMedia(ctx context.Context, id string, from, to int) (models.Project, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	form, err := c.Edit(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := form.ReorderMedia(from, to); err != nil {
		return models.Project{}, err
	}
	return c.submit(ctx, form)
}

// UploadMedia uploads files one by one without attaching them to a project.
func (c *Catalog) UploadMedia(ctx context.Context, files []UploadFile) ([]models.MediaItem, error) {
	items, err := uploadSequential(ctx, c.store, files)
	c.logger.Info().Int("uploaded", len(items)).Int("requested", len(files)).Msg("media upload finished")
	return items, err
}

// UploadToProject uploads files and appends them to the project's media. Files
// uploaded before a failure are still saved; the failure is returned alongside.
func (c *Catalog) UploadToProject(ctx context.Context, id string, files []UploadFile) (models.Project, []models.MediaItem, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	form, err := c.Edit(ctx, id)
	if err != nil {
		return models.Project{}, nil, err
	}
	items, uploadErr := form.UploadMedia(ctx, c.store, files)
	if len(items) == 0 {
		return models.Project{}, nil, uploadErr
	}
	saved, err := c.submit(ctx, form)
	if err != nil {
		return models.Project{}, items, err
	}
	return saved, items, uploadErr
}

func applyTransform(form *ProjectForm, index int, t MediaTransform) error {
	if err := form.SelectSlide(index); err != nil {
		return err
	}
	if t.Reset {
		return form.ResetTransform()
	}
	if t.Scale != nil {
		if err := form.SetScale(*t.Scale); err != nil {
			return err
		}
	}
	if t.X == nil && t.Y == nil {
		return nil
	}
	current := form.draft.Media[form.SelectedSlide()].TranslateOrDefault()
	if t.X != nil {
		current.X = *t.X
	}
	if t.Y != nil {
		current.Y = *t.Y
	}
	return form.SetTranslate(current.X, current.Y)
}

func (c *Catalog) refresh(ctx context.Context) {
	if err := c.cache.Refetch(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("cache refresh after write failed")
	}
}
