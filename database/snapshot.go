package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
)

//go:embed data/projects.json
var bundledProjects []byte

// SnapshotRepo serves a fixed project list when no database is configured. Writes fail
// with errs.ErrReadOnly.
type SnapshotRepo struct {
	projects []models.Project
}

// NewSnapshotRepo decodes a snapshot in the same loose format as database rows.
func NewSnapshotRepo(data []byte) (*SnapshotRepo, error) {
	var records []ProjectRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode project snapshot: %w", err)
	}

	projects := make([]models.Project, 0, len(records))
	for _, record := range records {
		projects = append(projects, record.ToProject())
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return &SnapshotRepo{projects: projects}, nil
}

// NewBundledSnapshotRepo loads the snapshot compiled into the binary.
func NewBundledSnapshotRepo() (*SnapshotRepo, error) {
	return NewSnapshotRepo(bundledProjects)
}

func (r *SnapshotRepo) FindAll(_ context.Context) ([]models.Project, error) {
	out := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p.Normalized())
	}
	return out, nil
}

func (r *SnapshotRepo) FindByID(_ context.Context, id string) (models.Project, error) {
	for _, p := range r.projects {
		if p.ID == id {
			return p.Normalized(), nil
		}
	}
	return models.Project{}, fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
}

func (r *SnapshotRepo) Add(_ context.Context, _ models.Project) error {
	return errs.ErrReadOnly
}

func (r *SnapshotRepo) Update(_ context.Context, _ string, _ models.ProjectPatch) error {
	return errs.ErrReadOnly
}

func (r *SnapshotRepo) Delete(_ context.Context, _ string) error {
	return errs.ErrReadOnly
}
