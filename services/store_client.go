package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/quonaro/portfolio-backend/database"
	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
	"github.com/quonaro/portfolio-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CatalogReader lists the whole catalog, newest first.
type CatalogReader interface {
	FetchAll(ctx context.Context) ([]models.Project, error)
}

// MediaUploader stores one media object and returns its public URL.
type MediaUploader interface {
	UploadMedia(ctx context.Context, fileName, contentType string, size int64, body io.Reader) (string, error)
}

// CatalogStore is the gateway to the record store and the object store.
type CatalogStore interface {
	CatalogReader
	MediaUploader
	Find(ctx context.Context, id string) (models.Project, error)
	Create(ctx context.Context, project models.Project) error
	Update(ctx context.Context, id string, patch models.ProjectPatch) error
	Delete(ctx context.Context, id string) error
}

// StoreClient makes exactly one attempt per call and wraps every failure in *errs.StoreError.
type StoreClient struct {
	projects database.ProjectStore
	objects  storage.ObjectStore
	now      func() time.Time
	logger   zerolog.Logger
}

func NewStoreClient(projects database.ProjectStore, objects storage.ObjectStore) *StoreClient {
	if objects == nil {
		objects = storage.Disabled{}
	}
	return &StoreClient{
		projects: projects,
		objects:  objects,
		now:      time.Now,
		logger:   log.With().Str("component", "storeClient").Logger(),
	}
}

func (c *StoreClient) FetchAll(ctx context.Context) ([]models.Project, error) {
	projects, err := c.projects.FindAll(ctx)
	if err != nil {
		return nil, c.fail("fetch", err)
	}
	return projects, nil
}

func (c *StoreClient) Find(ctx context.Context, id string) (models.Project, error) {
	project, err := c.projects.FindByID(ctx, id)
	if err != nil {
		return models.Project{}, c.fail("find", err)
	}
	return project, nil
}

func (c *StoreClient) Create(ctx context.Context, project models.Project) error {
	if err := c.projects.Add(ctx, project); err != nil {
		return c.fail("create", err)
	}
	c.logger.Info().Str("projectID", project.ID).Msg("project created")
	return nil
}

// Update changes only the fields set in patch. An empty patch only checks that id exists.
func (c *StoreClient) Update(ctx context.Context, id string, patch models.ProjectPatch) error {
	if err := c.projects.Update(ctx, id, patch); err != nil {
		return c.fail("update", err)
	}
	c.logger.Info().Str("projectID", id).Bool("noop", patch.IsEmpty()).Msg("project updated")
	return nil
}

// Delete removes the record only; uploaded media stay in the bucket.
func (c *StoreClient) Delete(ctx context.Context, id string) error {
	if err := c.projects.Delete(ctx, id); err != nil {
		return c.fail("delete", err)
	}
	c.logger.Info().Str("projectID", id).Msg("project deleted")
	return nil
}

func (c *StoreClient) UploadMedia(ctx context.Context, fileName, contentType string, size int64, body io.Reader) (string, error) {
	key := storage.NewObjectKey(fileName, c.now())
	url, err := c.objects.Upload(ctx, key, body, size, contentType)
	if err != nil {
		if !errors.Is(err, errs.ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
		}
		return "", c.fail("upload", err)
	}
	return url, nil
}

func (c *StoreClient) fail(op string, err error) error {
	c.logger.Warn().Err(err).Str("op", op).Msg("store operation failed")
	return errs.NewStoreError(op, err)
}
