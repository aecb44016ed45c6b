package services

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
)

// ProjectForm is one editing session for a single project, new or existing.
// It is not safe for concurrent edits; Submit alone is guarded against re-entry.
type ProjectForm struct {
	original  *models.Project
	draft     models.Project
	techInput string
	techDirty bool
	selected  int

	mu         sync.Mutex
	submitting bool
}

// NewProjectForm seeds a draft from existing, or empty defaults when existing is nil.
func NewProjectForm(existing *models.Project) *ProjectForm {
	f := &ProjectForm{}
	if existing == nil {
		f.draft = models.Project{}.Normalized()
		return f
	}

	seed := existing.Normalized()
	seed.Name = models.NormalizeLocalized(seed.Name, "")
	seed.ShortDescription = models.NormalizeLocalized(seed.ShortDescription, "")
	original := seed.Normalized()
	f.original = &original
	f.draft = seed
	f.techInput = strings.Join(seed.Technologies, ", ")
	return f
}

// Draft returns a copy of the current draft.
func (f *ProjectForm) Draft() models.Project {
	return f.draft.Normalized()
}

func (f *ProjectForm) IsNew() bool {
	return f.original == nil
}

// SetID chooses the identity of a new project; blank leaves it to Submit. The id of
// an existing project cannot change.
func (f *ProjectForm) SetID(id string) {
	if f.IsNew() {
		f.draft.ID = strings.TrimSpace(id)
	}
}

func (f *ProjectForm) SetName(name models.LocalizedText) {
	f.draft.Name = name
}

func (f *ProjectForm) SetShortDescription(desc models.LocalizedText) {
	f.draft.ShortDescription = desc
}

func (f *ProjectForm) SetLinks(links models.ProjectLinks) {
	f.draft.Links = links
}

func (f *ProjectForm) SetCoverImage(url string) {
	f.draft.CoverImage = url
}

// SetCoverConfig replaces the generated cover settings; nil removes them.
func (f *ProjectForm) SetCoverConfig(cfg *models.CoverConfig) {
	if cfg == nil {
		f.draft.CoverConfig = nil
		return
	}
	c := *cfg
	if c.Text != nil {
		t := *c.Text
		c.Text = &t
	}
	f.draft.CoverConfig = &c
}

// SetCoverMode switches the active cover without clearing the other mode's data.
func (f *ProjectForm) SetCoverMode(mode models.CoverType) {
	if f.draft.CoverConfig == nil {
		f.draft.CoverConfig = &models.CoverConfig{FontWeight: models.DefaultCoverFontWeight}
	}
	f.draft.CoverConfig.Type = mode
}

// SetTechnologiesInput records the raw comma separated text; the list changes on commit.
func (f *ProjectForm) SetTechnologiesInput(input string) {
	f.techInput = input
	f.techDirty = true
}

func (f *ProjectForm) TechnologiesInput() string {
	return f.techInput
}

// SetTechnologies replaces the tag list as is, bypassing the comma separated input.
func (f *ProjectForm) SetTechnologies(tags []string) {
	f.draft.Technologies = append([]string{}, tags...)
	f.techInput = strings.Join(tags, ", ")
	f.techDirty = false
}

// CommitTechnologies parses the pending text into the ordered tag list.
func (f *ProjectForm) CommitTechnologies() {
	f.draft.Technologies = models.ParseTechnologies(f.techInput)
	f.techDirty = false
}

func (f *ProjectForm) AppendMedia(item models.MediaItem) {
	f.draft.Media = append(f.draft.Media, item)
}

func (f *ProjectForm) RemoveMedia(index int) error {
	if err := checkIndex(index, len(f.draft.Media)); err != nil {
		return err
	}
	f.draft.Media = append(f.draft.Media[:index], f.draft.Media[index+1:]...)
	switch {
	case f.selected > index:
		f.selected--
	case f.selected >= len(f.draft.Media) && f.selected > 0:
		f.selected = len(f.draft.Media) - 1
	}
	return nil
}

// ReorderMedia moves the item at from to position to, keeping the others in order.
// [A B C] with (0, 2) becomes [B C A].
func (f *ProjectForm) ReorderMedia(from, to int) error {
	n := len(f.draft.Media)
	if err := checkIndex(from, n); err != nil {
		return err
	}
	if err := checkIndex(to, n); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	item := f.draft.Media[from]
	rest := append(append([]models.MediaItem{}, f.draft.Media[:from]...), f.draft.Media[from+1:]...)
	out := make([]models.MediaItem, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, item)
	out = append(out, rest[to:]...)
	f.draft.Media = out

	if f.selected == from {
		f.selected = to
	}
	return nil
}

// AppendButton rejects the fourth button with errs.ErrButtonLimit.
func (f *ProjectForm) AppendButton(button models.ActionButton) error {
	if len(f.draft.Buttons) >= models.MaxButtons {
		return errs.ErrButtonLimit
	}
	f.draft.Buttons = append(f.draft.Buttons, button)
	return nil
}

// CanAppendButton reports whether the add-button control should be offered.
func (f *ProjectForm) CanAppendButton() bool {
	return len(f.draft.Buttons) < models.MaxButtons
}

func (f *ProjectForm) RemoveButton(index int) error {
	if err := checkIndex(index, len(f.draft.Buttons)); err != nil {
		return err
	}
	f.draft.Buttons = append(f.draft.Buttons[:index], f.draft.Buttons[index+1:]...)
	return nil
}

// SelectSlide chooses the media item that transform edits apply to.
func (f *ProjectForm) SelectSlide(index int) error {
	if err := checkIndex(index, len(f.draft.Media)); err != nil {
		return err
	}
	f.selected = index
	return nil
}

func (f *ProjectForm) SelectedSlide() int {
	return f.selected
}

// SetScale zooms the selected image, clamped to [MinScale, MaxScale].
func (f *ProjectForm) SetScale(scale float64) error {
	item, err := f.selectedImage()
	if err != nil {
		return err
	}
	s := clampScale(scale)
	item.Scale = &s
	return nil
}

// SetTranslate pans the selected image by x, y pixels.
func (f *ProjectForm) SetTranslate(x, y float64) error {
	item, err := f.selectedImage()
	if err != nil {
		return err
	}
	item.Translate = &models.Point{X: x, Y: y}
	return nil
}

// ResetTransform clears pan and zoom on the selected image.
func (f *ProjectForm) ResetTransform() error {
	item, err := f.selectedImage()
	if err != nil {
		return err
	}
	item.Scale = nil
	item.Translate = nil
	return nil
}

func (f *ProjectForm) selectedImage() (*models.MediaItem, error) {
	if err := checkIndex(f.selected, len(f.draft.Media)); err != nil {
		return nil, err
	}
	item := &f.draft.Media[f.selected]
	if item.Type != models.MediaImage {
		return nil, errs.ErrNotAnImage
	}
	return item, nil
}

// SetInGallery toggles gallery membership. Turning it on reads the full catalog and
// fails with errs.ErrGalleryFull when MaxGalleryProjects other projects are members.
func (f *ProjectForm) SetInGallery(ctx context.Context, on bool, catalog CatalogReader) error {
	if !on || f.draft.IsInGallery {
		f.draft.IsInGallery = on
		return nil
	}

	projects, err := catalog.FetchAll(ctx)
	if err != nil {
		return err
	}
	if models.CountInGallery(projects, f.draft.ID) >= models.MaxGalleryProjects {
		return errs.NewGalleryFullError(models.MaxGalleryProjects)
	}
	f.draft.IsInGallery = true
	return nil
}

// Load replays an edited project onto the draft through the same operations as the editor.
// Gallery membership is not touched; use SetInGallery.
func (f *ProjectForm) Load(edited models.Project) error {
	edited = edited.Normalized()

	f.SetName(edited.Name)
	f.SetShortDescription(edited.ShortDescription)
	f.SetLinks(edited.Links)
	f.SetCoverImage(edited.CoverImage)
	f.SetCoverConfig(edited.CoverConfig)
	if f.IsNew() {
		f.SetID(edited.ID)
	}
	f.SetTechnologies(edited.Technologies)

	f.draft.Media = []models.MediaItem{}
	f.selected = 0
	for i, item := range edited.Media {
		if item.Type != models.MediaImage {
			f.AppendMedia(item)
			continue
		}
		scale, translate := item.Scale, item.Translate
		item.Scale, item.Translate = nil, nil
		f.AppendMedia(item)
		if err := f.SelectSlide(i); err != nil {
			return err
		}
		if scale != nil {
			if err := f.SetScale(*scale); err != nil {
				return err
			}
		}
		if translate != nil {
			if err := f.SetTranslate(translate.X, translate.Y); err != nil {
				return err
			}
		}
	}
	f.selected = 0

	f.draft.Buttons = []models.ActionButton{}
	for _, b := range edited.Buttons {
		if err := f.AppendButton(b); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the draft without submitting it.
func (f *ProjectForm) Validate() error {
	return ValidateProject(f.draft)
}

// Diff returns the top-level fields that differ from the seeded project.
// For a new project every field is set.
func (f *ProjectForm) Diff() models.ProjectPatch {
	d := f.draft.Normalized()
	if f.original == nil {
		return fullPatch(d)
	}

	o := f.original.Normalized()
	var patch models.ProjectPatch
	if !reflect.DeepEqual(o.Name, d.Name) {
		patch.Name = &d.Name
	}
	if !reflect.DeepEqual(o.ShortDescription, d.ShortDescription) {
		patch.ShortDescription = &d.ShortDescription
	}
	if !reflect.DeepEqual(o.Technologies, d.Technologies) {
		patch.Technologies = &d.Technologies
	}
	if !reflect.DeepEqual(o.Media, d.Media) {
		patch.Media = &d.Media
	}
	if !reflect.DeepEqual(o.Buttons, d.Buttons) {
		patch.Buttons = &d.Buttons
	}
	if !reflect.DeepEqual(o.Links, d.Links) {
		patch.Links = &d.Links
	}
	if o.CoverImage != d.CoverImage {
		patch.CoverImage = &d.CoverImage
	}
	if !reflect.DeepEqual(o.CoverConfig, d.CoverConfig) {
		patch.CoverConfig = &d.CoverConfig
	}
	if o.IsInGallery != d.IsInGallery {
		patch.IsInGallery = &d.IsInGallery
	}
	return patch
}

// Submit validates and persists the draft. A new project is created under the id
// set with SetID, or under a fresh slug id when none was set; an existing one is
// updated with Diff. A second call while one is running fails with
// errs.ErrSubmitInProgress. On failure the draft is left as it was.
func (f *ProjectForm) Submit(ctx context.Context, store CatalogStore) (models.Project, error) {
	if !f.beginSubmit() {
		return models.Project{}, errs.ErrSubmitInProgress
	}
	defer f.endSubmit()

	if f.techDirty {
		f.CommitTechnologies()
	}
	if err := f.Validate(); err != nil {
		return models.Project{}, err
	}

	if f.original == nil {
		project := f.draft.Normalized()
		if project.ID == "" {
			id, err := models.NewProjectID(project.Name.EN)
			if err != nil {
				return models.Project{}, fmt.Errorf("generate project id: %w", err)
			}
			project.ID = id
		}
		if err := store.Create(ctx, project); err != nil {
			return models.Project{}, err
		}
		f.draft.ID = project.ID
		f.original = &project
		return project.Normalized(), nil
	}

	patch := f.Diff()
	if err := store.Update(ctx, f.original.ID, patch); err != nil {
		return models.Project{}, err
	}
	saved := f.original.Normalized()
	patch.Apply(&saved)
	saved = saved.Normalized()
	f.original = &saved
	return saved.Normalized(), nil
}

func (f *ProjectForm) beginSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return false
	}
	f.submitting = true
	return true
}

func (f *ProjectForm) endSubmit() {
	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()
}

// UploadFile is one file picked for upload.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadMedia uploads files one after another and appends each as a media item.
// Items uploaded before a failure stay in the draft.
func (f *ProjectForm) UploadMedia(ctx context.Context, uploader MediaUploader, files []UploadFile) ([]models.MediaItem, error) {
	items, err := uploadSequential(ctx, uploader, files)
	for _, item := range items {
		f.AppendMedia(item)
	}
	return items, err
}

func uploadSequential(ctx context.Context, uploader MediaUploader, files []UploadFile) ([]models.MediaItem, error) {
	items := make([]models.MediaItem, 0, len(files))
	for _, file := range files {
		url, err := uploadOne(ctx, uploader, file)
		if err != nil {
			return items, fmt.Errorf("upload %s: %w", file.Name, err)
		}
		items = append(items, models.MediaItem{Type: mediaTypeFor(file.ContentType), URL: url})
	}
	return items, nil
}

func uploadOne(ctx context.Context, uploader MediaUploader, file UploadFile) (string, error) {
	body, err := file.Open()
	if err != nil {
		return "", err
	}
	defer body.Close()
	return uploader.UploadMedia(ctx, file.Name, file.ContentType, file.Size, body)
}

func mediaTypeFor(contentType string) models.MediaType {
	if strings.HasPrefix(contentType, "video/") {
		return models.MediaVideo
	}
	return models.MediaImage
}

func fullPatch(p models.Project) models.ProjectPatch {
	return models.ProjectPatch{
		Name:             &p.Name,
		ShortDescription: &p.ShortDescription,
		Technologies:     &p.Technologies,
		Media:            &p.Media,
		Buttons:          &p.Buttons,
		Links:            &p.Links,
		CoverImage:       &p.CoverImage,
		CoverConfig:      &p.CoverConfig,
		IsInGallery:      &p.IsInGallery,
	}
}

func clampScale(s float64) float64 {
	switch {
	case s < models.MinScale:
		return models.MinScale
	case s > models.MaxScale:
		return models.MaxScale
	}
	return s
}

func checkIndex(index, length int) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%w: %d not in [0, %d)", errs.ErrIndexOutOfRange, index, length)
	}
	return nil
}
