package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// ProjectStore is the record store behind the catalog.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id string) (models.Project, error)
	Add(ctx context.Context, project models.Project) error
	Update(ctx context.Context, id string, patch models.ProjectPatch) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns every project, newest first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var records []ProjectRecord
	err := r.db.WithContext(ctx).
		Select(projectColumns).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, translateError(err)
	}

	projects := make([]models.Project, 0, len(records))
	for _, record := range records {
		projects = append(projects, record.ToProject())
	}
	return projects, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (models.Project, error) {
	var record ProjectRecord
	err := r.db.WithContext(ctx).
		Select(projectColumns).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		return models.Project{}, translateError(err)
	}
	return record.ToProject(), nil
}

// Add inserts a new project
func (r *ProjectRepo) Add(ctx context.Context, project models.Project) error {
	record := NewProjectRecord(project)
	return translateError(r.db.WithContext(ctx).Create(&record).Error)
}

// Update writes only the fields set in patch
func (r *ProjectRepo) Update(ctx context.Context, id string, patch models.ProjectPatch) error {
	cols := patchColumns(patch)
	if len(cols) == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ProjectRecord{}).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// Delete removes a project by id
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProjectRecord{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", errs.ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", errs.ErrAlreadyExists, pgErr.Detail)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", errs.ErrStoreUnavailable, err)
	}
	return err
}
