package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
)

// memStore is an in-memory CatalogStore.
type memStore struct {
	mu       sync.Mutex
	projects map[string]models.Project
	clock    time.Time

	fetchErr   error
	fetchCalls int
	updates    []models.ProjectPatch
	creates    []models.Project
	uploads    []string
	failUpload map[string]bool

	// block, when set, holds Create/Update until it is closed
	block chan struct{}
}

func newMemStore(projects ...models.Project) *memStore {
	s := &memStore{projects: map[string]models.Project{}, clock: time.Unix(1700000000, 0)}
	for _, p := range projects {
		s.put(p)
	}
	return s
}

func (s *memStore) put(p models.Project) {
	if p.CreatedAt.IsZero() {
		s.clock = s.clock.Add(time.Minute)
		p.CreatedAt = s.clock
	}
	s.projects[p.ID] = p.Normalized()
}

func (s *memStore) FetchAll(_ context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, errs.NewStoreError("fetch", s.fetchErr)
	}
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Normalized())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) Find(_ context.Context, id string) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return models.Project{}, errs.NewStoreError("find", fmt.Errorf("project %s: %w", id, errs.ErrNotFound))
	}
	return p.Normalized(), nil
}

func (s *memStore) Create(_ context.Context, p models.Project) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; ok {
		return errs.NewStoreError("create", errs.ErrAlreadyExists)
	}
	s.creates = append(s.creates, p)
	s.put(p)
	return nil
}

func (s *memStore) Update(_ context.Context, id string, patch models.ProjectPatch) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return errs.NewStoreError("update", fmt.Errorf("project %s: %w", id, errs.ErrNotFound))
	}
	s.updates = append(s.updates, patch)
	patch.Apply(&p)
	s.projects[id] = p.Normalized()
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return errs.NewStoreError("delete", fmt.Errorf("project %s: %w", id, errs.ErrNotFound))
	}
	delete(s.projects, id)
	return nil
}

func (s *memStore) UploadMedia(_ context.Context, fileName, _ string, _ int64, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpload[fileName] {
		return "", errs.NewStoreError("upload", errs.ErrStoreUnavailable)
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	s.uploads = append(s.uploads, fileName)
	return "https://cdn.test/" + fileName, nil
}

func galleryProjects(n int) []models.Project {
	out := make([]models.Project, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Project{
			ID:          fmt.Sprintf("g%d", i),
			Name:        models.LocalizedText{EN: fmt.Sprintf("G%d", i)},
			IsInGallery: true,
		})
	}
	return out
}

func imageItem(url string) models.MediaItem {
	return models.MediaItem{Type: models.MediaImage, URL: url}
}
