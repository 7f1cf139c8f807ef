package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	capsuledomain "github.com/Ashutosh26l/samay-capsule/internal/capsule/domain"
)

// --- Fakes ---

type fakeCapsuleRepo struct {
	capsules  map[string]*capsuledomain.Capsule
	createErr error
	findErr   error
}

func newFakeCapsuleRepo() *fakeCapsuleRepo {
	return &fakeCapsuleRepo{capsules: map[string]*capsuledomain.Capsule{}}
}

func (f *fakeCapsuleRepo) Create(c *capsuledomain.Capsule) error {
	if f.createErr != nil {
		return f.createErr
	}
	if c.ID == "" {
		c.ID = "cap-" + c.Title
	}
	c.CreatedAt = time.Now()
	f.capsules[c.ID] = c
	return nil
}

func (f *fakeCapsuleRepo) FindByOwner(ownerID string) ([]*capsuledomain.Capsule, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*capsuledomain.Capsule
	for _, c := range f.capsules {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCapsuleRepo) FindByID(ownerID, id string) (*capsuledomain.Capsule, error) {
	c, ok := f.capsules[id]
	if !ok || c.UserID != ownerID {
		return nil, nil
	}
	return c, nil
}

func (f *fakeCapsuleRepo) MarkUnlocked(ownerID, id string) error {
	c, ok := f.capsules[id]
	if !ok || c.UserID != ownerID {
		return gorm.ErrRecordNotFound
	}
	c.IsUnlocked = true
	return nil
}

func (f *fakeCapsuleRepo) FindDueUnnotified(now time.Time) ([]*capsuledomain.Capsule, error) {
	return nil, nil
}

func (f *fakeCapsuleRepo) MarkNotified(id string, at time.Time) error { return nil }

type fakeMediaStore struct {
	uploads   []string
	uploadErr error
}

func (f *fakeMediaStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeMediaStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://media.example/" + key + "?sig=abc", nil
}

type fakeQueue struct {
	jobs []EnrichJob
	full bool
}

func (f *fakeQueue) Enqueue(job EnrichJob) bool {
	if f.full {
		return false
	}
	f.jobs = append(f.jobs, job)
	return true
}

func newUsecase(repo *fakeCapsuleRepo, media *fakeMediaStore, queue *fakeQueue) CapsuleUsecase {
	return NewCapsuleUsecase(repo, media, queue, 365*24*time.Hour)
}

// --- Create ---

func TestCreateRejectsEmptyFieldsBeforeAnyCall(t *testing.T) {
	repo := newFakeCapsuleRepo()
	media := &fakeMediaStore{}
	queue := &fakeQueue{}
	uc := newUsecase(repo, media, queue)

	tomorrow := time.Now().Add(24 * time.Hour)

	for _, in := range []CreateInput{
		{Title: "", Content: "hello", ReleaseAt: tomorrow},
		{Title: "   ", Content: "hello", ReleaseAt: tomorrow},
		{Title: "hi", Content: "", ReleaseAt: tomorrow},
		{Title: "hi", Content: "hello", ReleaseAt: time.Time{}},
	} {
		_, err := uc.Create(context.Background(), "user-1", in)
		require.ErrorIs(t, err, capsuledomain.ErrValidation)
	}

	// Nothing was uploaded, persisted or queued.
	assert.Empty(t, media.uploads)
	assert.Empty(t, repo.capsules)
	assert.Empty(t, queue.jobs)
}

func TestCreateRejectsOversizedMediaBeforeUpload(t *testing.T) {
	repo := newFakeCapsuleRepo()
	media := &fakeMediaStore{}
	queue := &fakeQueue{}
	uc := newUsecase(repo, media, queue)

	_, err := uc.Create(context.Background(), "user-1", CreateInput{
		Title:     "big one",
		Content:   "with a huge file",
		ReleaseAt: time.Now().Add(24 * time.Hour),
		Media: &MediaInput{
			Filename:    "video.mp4",
			ContentType: "video/mp4",
			Size:        15 << 20, // 15 MiB, over the 10 MiB ceiling
			Reader:      strings.NewReader("x"),
		},
	})
	require.ErrorIs(t, err, capsuledomain.ErrUpload)
	assert.Empty(t, media.uploads)
	assert.Empty(t, repo.capsules)
}

func TestCreateUploadsMediaBeforeRecord(t *testing.T) {
	repo := newFakeCapsuleRepo()
	media := &fakeMediaStore{}
	queue := &fakeQueue{}
	uc := newUsecase(repo, media, queue)

	c, err := uc.Create(context.Background(), "user-1", CreateInput{
		Title:     "graduation",
		Content:   "we made it",
		ReleaseAt: time.Now().Add(24 * time.Hour),
		Media: &MediaInput{
			Filename:    "photo.jpg",
			ContentType: "image/jpeg",
			Size:        2 << 20,
			Reader:      strings.NewReader("jpegbytes"),
		},
	})
	require.NoError(t, err)

	require.Len(t, media.uploads, 1)
	assert.True(t, strings.HasPrefix(media.uploads[0], "user-1/"), "media key is namespaced by owner")
	assert.Contains(t, c.MediaURL, "sig=", "record carries the signed url, not a raw path")
	assert.Equal(t, "image/jpeg", c.MediaType)
}

func TestCreateFailedUploadWritesNoRecord(t *testing.T) {
	repo := newFakeCapsuleRepo()
	media := &fakeMediaStore{uploadErr: errors.New("connection reset")}
	queue := &fakeQueue{}
	uc := newUsecase(repo, media, queue)

	_, err := uc.Create(context.Background(), "user-1", CreateInput{
		Title:     "t",
		Content:   "c",
		ReleaseAt: time.Now().Add(time.Hour),
		Media: &MediaInput{
			Filename: "a.png", ContentType: "image/png", Size: 100, Reader: strings.NewReader("x"),
		},
	})
	require.ErrorIs(t, err, capsuledomain.ErrUpload)
	assert.Empty(t, repo.capsules, "record must never point at a missing blob")
}

func TestCreateQueuesEnrichmentWithCapsuleID(t *testing.T) {
	repo := newFakeCapsuleRepo()
	queue := &fakeQueue{}
	uc := newUsecase(repo, &fakeMediaStore{}, queue)

	c, err := uc.Create(context.Background(), "user-1", CreateInput{
		Title:     "dear future me",
		Content:   "today was a good day",
		ReleaseAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, c.ID, queue.jobs[0].CapsuleID)
	assert.Equal(t, "today was a good day", queue.jobs[0].Content)

	// AI fields are absent until the worker runs.
	assert.Empty(t, c.AISummary)
	assert.Empty(t, c.AIFutureReply)
	assert.Equal(t, capsuledomain.AIStatusPending, c.AIStatus)
}

func TestCreateSucceedsWhenQueueIsFull(t *testing.T) {
	repo := newFakeCapsuleRepo()
	queue := &fakeQueue{full: true}
	uc := newUsecase(repo, &fakeMediaStore{}, queue)

	c, err := uc.Create(context.Background(), "user-1", CreateInput{
		Title: "t", Content: "c", ReleaseAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err, "enrichment availability never fails Create")
	assert.NotEmpty(t, c.ID)
}

// --- Get / List ---

func TestGetScopedByOwner(t *testing.T) {
	repo := newFakeCapsuleRepo()
	require.NoError(t, repo.Create(&capsuledomain.Capsule{ID: "cap-1", UserID: "alice", Title: "hers"}))
	uc := newUsecase(repo, &fakeMediaStore{}, &fakeQueue{})

	got, err := uc.Get("alice", "cap-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Someone else's capsule is indistinguishable from a missing one.
	got, err = uc.Get("bob", "cap-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = uc.Get("alice", "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListSurfacesStorageFailure(t *testing.T) {
	repo := newFakeCapsuleRepo()
	repo.findErr = errors.New("db down")
	uc := newUsecase(repo, &fakeMediaStore{}, &fakeQueue{})

	_, err := uc.List("alice")
	require.ErrorIs(t, err, capsuledomain.ErrPersistence, "a fetch failure is not an empty list")
}

// --- Unlock ---

func TestUnlockOwnCapsule(t *testing.T) {
	repo := newFakeCapsuleRepo()
	require.NoError(t, repo.Create(&capsuledomain.Capsule{
		ID: "cap-1", UserID: "alice", ReleaseAt: time.Now().Add(100 * time.Hour),
	}))
	uc := newUsecase(repo, &fakeMediaStore{}, &fakeQueue{})

	c, err := uc.Unlock("alice", "cap-1")
	require.NoError(t, err)
	assert.True(t, c.IsUnlocked)
	assert.False(t, capsuledomain.IsLocked(c, time.Now()), "manual unlock overrides the release date")
}

func TestUnlockForeignCapsuleIsNotFound(t *testing.T) {
	repo := newFakeCapsuleRepo()
	require.NoError(t, repo.Create(&capsuledomain.Capsule{ID: "cap-1", UserID: "alice"}))
	uc := newUsecase(repo, &fakeMediaStore{}, &fakeQueue{})

	_, err := uc.Unlock("bob", "cap-1")
	require.ErrorIs(t, err, capsuledomain.ErrNotFound)
	c := repo.capsules["cap-1"]
	assert.False(t, c.IsUnlocked)
}
