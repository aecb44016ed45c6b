package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectForm_Defaults(t *testing.T) {
	f := NewProjectForm(nil)
	d := f.Draft()

	assert.True(t, f.IsNew())
	assert.Equal(t, models.LocalizedText{}, d.Name)
	assert.NotNil(t, d.Media)
	assert.NotNil(t, d.Buttons)
	assert.NotNil(t, d.Technologies)
}

func TestNewProjectForm_SeedsCopy(t *testing.T) {
	existing := models.Project{ID: "x", Name: models.LocalizedText{EN: "X"}, Technologies: []string{"Go", "SQL"}}
	f := NewProjectForm(&existing)

	f.SetTechnologiesInput("Rust")
	f.CommitTechnologies()

	assert.Equal(t, "Go, SQL", NewProjectForm(&existing).TechnologiesInput())
	assert.Equal(t, []string{"Go", "SQL"}, existing.Technologies)
}

func TestProjectForm_TechnologiesCommitOnlyOnCommit(t *testing.T) {
	f := NewProjectForm(nil)

	f.SetTechnologiesInput(" Go, ,React ,  ")
	assert.Empty(t, f.Draft().Technologies)

	f.CommitTechnologies()
	assert.Equal(t, []string{"Go", "React"}, f.Draft().Technologies)
}

func TestProjectForm_ReorderMedia(t *testing.T) {
	f := NewProjectForm(nil)
	for _, u := range []string{"A", "B", "C"} {
		f.AppendMedia(imageItem(u))
	}

	require.NoError(t, f.ReorderMedia(0, 2))
	assert.Equal(t, []string{"B", "C", "A"}, urls(f.Draft().Media))

	require.NoError(t, f.ReorderMedia(2, 0))
	assert.Equal(t, []string{"A", "B", "C"}, urls(f.Draft().Media))

	require.NoError(t, f.ReorderMedia(1, 1))
	assert.Equal(t, []string{"A", "B", "C"}, urls(f.Draft().Media))

	assert.True(t, errors.Is(f.ReorderMedia(0, 3), errs.ErrIndexOutOfRange))
}

func TestProjectForm_RemoveMedia(t *testing.T) {
	f := NewProjectForm(nil)
	f.AppendMedia(imageItem("A"))
	f.AppendMedia(imageItem("B"))

	require.NoError(t, f.RemoveMedia(0))
	assert.Equal(t, []string{"B"}, urls(f.Draft().Media))
	assert.Error(t, f.RemoveMedia(5))
}

func TestProjectForm_ButtonCap(t *testing.T) {
	f := NewProjectForm(nil)
	for i := 0; i < models.MaxButtons; i++ {
		require.NoError(t, f.AppendButton(models.NewActionButton()))
	}

	assert.False(t, f.CanAppendButton())
	err := f.AppendButton(models.NewActionButton())
	assert.True(t, errors.Is(err, errs.ErrButtonLimit))
	assert.Len(t, f.Draft().Buttons, 3)

	require.NoError(t, f.RemoveButton(1))
	assert.Len(t, f.Draft().Buttons, 2)
	assert.True(t, f.CanAppendButton())
}

func TestProjectForm_ScaleClamp(t *testing.T) {
	f := NewProjectForm(nil)
	f.AppendMedia(imageItem("A"))
	require.NoError(t, f.SelectSlide(0))

	require.NoError(t, f.SetScale(10))
	assert.Equal(t, 5.0, *f.Draft().Media[0].Scale)

	require.NoError(t, f.SetScale(-1))
	assert.Equal(t, 0.1, *f.Draft().Media[0].Scale)

	require.NoError(t, f.SetScale(2.5))
	assert.Equal(t, 2.5, *f.Draft().Media[0].Scale)
}

func TestProjectForm_TransformIsPerSlide(t *testing.T) {
	f := NewProjectForm(nil)
	f.AppendMedia(imageItem("A"))
	f.AppendMedia(imageItem("B"))
	f.AppendMedia(models.MediaItem{Type: models.MediaVideo, URL: "V"})

	require.NoError(t, f.SelectSlide(1))
	require.NoError(t, f.SetTranslate(40, -20))
	require.NoError(t, f.SetScale(2))

	d := f.Draft()
	assert.Nil(t, d.Media[0].Scale)
	assert.Nil(t, d.Media[0].Translate)
	assert.Equal(t, models.Point{X: 40, Y: -20}, *d.Media[1].Translate)

	require.NoError(t, f.SelectSlide(2))
	assert.True(t, errors.Is(f.SetScale(2), errs.ErrNotAnImage))
	assert.Nil(t, f.Draft().Media[2].Scale)

	require.NoError(t, f.SelectSlide(1))
	require.NoError(t, f.ResetTransform())
	assert.False(t, f.Draft().Media[1].Transformed())
}

func TestProjectForm_CoverModeKeepsBoth(t *testing.T) {
	f := NewProjectForm(nil)
	f.SetCoverImage("cover.png")
	f.SetCoverMode(models.CoverGenerated)
	f.SetCoverConfig(&models.CoverConfig{Type: models.CoverGenerated, Gradient: "sunset"})

	f.SetCoverMode(models.CoverImage)
	d := f.Draft()
	assert.Equal(t, "cover.png", d.CoverImage)
	require.NotNil(t, d.CoverConfig)
	assert.Equal(t, "sunset", d.CoverConfig.Gradient)
	assert.Equal(t, models.CoverImage, d.CoverConfig.Type)

	f.SetCoverMode(models.CoverGenerated)
	assert.True(t, f.Draft().CoverConfig.Generated())
}

func TestProjectForm_SetCoverModeDefaultsWeight(t *testing.T) {
	f := NewProjectForm(nil)
	f.SetCoverMode(models.CoverGenerated)
	assert.Equal(t, models.DefaultCoverFontWeight, f.Draft().CoverConfig.FontWeight)
}

func TestProjectForm_GalleryCap(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(append(galleryProjects(7), models.Project{ID: "eighth", Name: models.LocalizedText{EN: "8"}})...)

	eighth, err := store.Find(ctx, "eighth")
	require.NoError(t, err)
	f := NewProjectForm(&eighth)

	err = f.SetInGallery(ctx, true, store)
	assert.True(t, errors.Is(err, errs.ErrGalleryFull))
	assert.False(t, f.Draft().IsInGallery)

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, models.CountInGallery(all, ""))
}

func TestProjectForm_GalleryMemberCanStay(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(galleryProjects(7)...)
	member, err := store.Find(ctx, "g3")
	require.NoError(t, err)

	f := NewProjectForm(&member)
	require.NoError(t, f.SetInGallery(ctx, false, store))
	require.NoError(t, f.SetInGallery(ctx, true, store))
	assert.True(t, f.Draft().IsInGallery)
}

func TestProjectForm_SubmitCreate(t *testing.T) {
	store := newMemStore()
	f := NewProjectForm(nil)
	f.SetName(models.LocalizedText{EN: "Demo", RU: "Демо"})

	saved, err := f.Submit(context.Background(), store)
	require.NoError(t, err)

	assert.Regexp(t, `^demo-[a-z0-9]{5}$`, saved.ID)
	require.Len(t, store.creates, 1)
	assert.Equal(t, saved.ID, store.creates[0].ID)
	assert.False(t, f.IsNew())
}

func TestProjectForm_SubmitRequiresName(t *testing.T) {
	store := newMemStore()
	f := NewProjectForm(nil)
	f.SetName(models.LocalizedText{EN: "   ", RU: "Имя"})

	_, err := f.Submit(context.Background(), store)

	assert.True(t, errs.IsMissingRequiredFieldError(err))
	assert.Empty(t, store.creates)
}

func TestProjectForm_SubmitRejectsInvalidMedia(t *testing.T) {
	f := NewProjectForm(nil)
	f.SetName(models.LocalizedText{EN: "X"})
	f.AppendMedia(models.MediaItem{Type: "gif", URL: "u"})

	err := f.Validate()
	require.True(t, errs.IsInvalidFieldError(err))

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "media[0].type", apiErr.Field)
}

func TestProjectForm_RoundTripNoChurn(t *testing.T) {
	ctx := context.Background()
	scale := 1.5
	stored := models.Project{
		ID:           "demo-abcde",
		Name:         models.LocalizedText{EN: "Demo", RU: "Демо"},
		Technologies: []string{"Go", "React"},
		Media:        []models.MediaItem{{Type: models.MediaImage, URL: "a", Scale: &scale, Translate: &models.Point{X: 3}}},
		Buttons:      []models.ActionButton{{URL: "https://x", Icon: models.IconGithub}},
		CoverConfig:  &models.CoverConfig{Type: models.CoverGenerated, Gradient: "ocean"},
	}
	store := newMemStore(stored)

	fetched, err := store.Find(ctx, stored.ID)
	require.NoError(t, err)
	f := NewProjectForm(&fetched)
	require.NoError(t, f.Load(fetched))
	f.SetTechnologiesInput(f.TechnologiesInput())

	_, err = f.Submit(ctx, store)
	require.NoError(t, err)

	require.Len(t, store.updates, 1)
	assert.True(t, store.updates[0].IsEmpty())
}

func TestProjectForm_SubmitSendsOnlyChangedFields(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(models.Project{ID: "p", Name: models.LocalizedText{EN: "P"}, Technologies: []string{"Go"}})
	p, err := store.Find(ctx, "p")
	require.NoError(t, err)

	f := NewProjectForm(&p)
	f.SetShortDescription(models.LocalizedText{EN: "new"})
	_, err = f.Submit(ctx, store)
	require.NoError(t, err)

	patch := store.updates[0]
	require.NotNil(t, patch.ShortDescription)
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.Technologies)

	_, err = f.Submit(ctx, store)
	require.NoError(t, err)
	assert.True(t, store.updates[1].IsEmpty())
}

func TestProjectForm_SubmitNotFoundKeepsDraft(t *testing.T) {
	ctx := context.Background()
	gone := models.Project{ID: "gone", Name: models.LocalizedText{EN: "Gone"}}
	f := NewProjectForm(&gone)
	f.SetShortDescription(models.LocalizedText{EN: "edit"})

	_, err := f.Submit(ctx, newMemStore())

	assert.True(t, errors.Is(err, errs.ErrNotFound))
	assert.Equal(t, "edit", f.Draft().ShortDescription.EN)
}

func TestProjectForm_DoubleSubmitRejected(t *testing.T) {
	store := newMemStore()
	store.block = make(chan struct{})
	f := NewProjectForm(nil)
	f.SetName(models.LocalizedText{EN: "Once"})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.Submit(context.Background(), store)
	}()

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.submitting
	}, time.Second, time.Millisecond)

	_, err := f.Submit(context.Background(), store)
	assert.True(t, errors.Is(err, errs.ErrSubmitInProgress))

	close(store.block)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Len(t, store.creates, 1)
}

func TestProjectForm_UploadMediaSequential(t *testing.T) {
	store := newMemStore()
	store.failUpload = map[string]bool{"c.png": true}
	f := NewProjectForm(nil)

	files := []UploadFile{
		fileOf("a.png", "image/png"),
		fileOf("b.mp4", "video/mp4"),
		fileOf("c.png", "image/png"),
		fileOf("d.png", "image/png"),
	}
	items, err := f.UploadMedia(context.Background(), store, files)

	assert.True(t, errors.Is(err, errs.ErrStoreUnavailable))
	assert.Equal(t, []string{"a.png", "b.mp4"}, store.uploads)
	require.Len(t, items, 2)
	assert.Equal(t, models.MediaVideo, items[1].Type)
	assert.Equal(t, []string{"https://cdn.test/a.png", "https://cdn.test/b.mp4"}, urls(f.Draft().Media))
}

func TestProjectForm_LoadRejectsFourButtons(t *testing.T) {
	f := NewProjectForm(nil)
	edited := models.Project{Buttons: make([]models.ActionButton, 4)}

	assert.True(t, errors.Is(f.Load(edited), errs.ErrButtonLimit))
}

func TestProjectForm_LoadClampsScale(t *testing.T) {
	f := NewProjectForm(nil)
	big := 12.0
	require.NoError(t, f.Load(models.Project{Media: []models.MediaItem{{Type: models.MediaImage, URL: "a", Scale: &big}}}))

	assert.Equal(t, models.MaxScale, *f.Draft().Media[0].Scale)
}

func fileOf(name, contentType string) UploadFile {
	return UploadFile{
		Name:        name,
		ContentType: contentType,
		Size:        4,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("data")), nil
		},
	}
}

func urls(items []models.MediaItem) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.URL)
	}
	return out
}

func TestProjectForm_SubmitCreateWithChosenID(t *testing.T) {
	store := newMemStore()
	f := NewProjectForm(nil)
	f.SetID(" my-chosen-id ")
	f.SetName(models.LocalizedText{EN: "Demo"})

	saved, err := f.Submit(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, "my-chosen-id", saved.ID)
	require.Len(t, store.creates, 1)
	assert.Equal(t, "my-chosen-id", store.creates[0].ID)
}

func TestProjectForm_SetIDIgnoredForExisting(t *testing.T) {
	existing := models.Project{ID: "p", Name: models.LocalizedText{EN: "P"}}
	f := NewProjectForm(&existing)

	f.SetID("other")

	assert.Equal(t, "p", f.Draft().ID)
}

func TestProjectForm_LoadKeepsTechnologiesVerbatim(t *testing.T) {
	ctx := context.Background()
	stored := models.Project{
		ID:           "p",
		Name:         models.LocalizedText{EN: "P"},
		Technologies: []string{"C, C++", " Go "},
	}
	store := newMemStore(stored)
	fetched, err := store.Find(ctx, "p")
	require.NoError(t, err)

	f := NewProjectForm(&fetched)
	require.NoError(t, f.Load(fetched))
	assert.Equal(t, []string{"C, C++", " Go "}, f.Draft().Technologies)

	_, err = f.Submit(ctx, store)
	require.NoError(t, err)
	require.Len(t, store.updates, 1)
	assert.Nil(t, store.updates[0].Technologies)
}
