package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	capsuledomain "github.com/Ashutosh26l/samay-capsule/internal/capsule/domain"
	"github.com/Ashutosh26l/samay-capsule/internal/capsule/repository"
	"github.com/Ashutosh26l/samay-capsule/pkg/storage"
)

// MediaStore is the slice of object storage the capsule usecase needs.
type MediaStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// MediaInput is an optional attachment on capsule creation.
type MediaInput struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreateInput carries the user-supplied fields of a new capsule.
type CreateInput struct {
	Title     string
	Content   string
	ReleaseAt time.Time
	Media     *MediaInput
}

// CapsuleUsecase is the application-level capsule repository: every call
// takes the owner identity explicitly, never reads it from ambient state.
type CapsuleUsecase interface {
	List(ownerID string) ([]*capsuledomain.Capsule, error)
	Create(ctx context.Context, ownerID string, in CreateInput) (*capsuledomain.Capsule, error)
	Get(ownerID, id string) (*capsuledomain.Capsule, error)
	Unlock(ownerID, id string) (*capsuledomain.Capsule, error)
}

type capsuleUsecase struct {
	repo         repository.CapsuleRepository
	media        MediaStore
	enrichQueue  EnrichQueuer
	signedURLTTL time.Duration
}

func NewCapsuleUsecase(repo repository.CapsuleRepository, media MediaStore, enrichQueue EnrichQueuer, signedURLTTL time.Duration) CapsuleUsecase {
	return &capsuleUsecase{
		repo:         repo,
		media:        media,
		enrichQueue:  enrichQueue,
		signedURLTTL: signedURLTTL,
	}
}

// List returns all capsules owned by the caller, newest first. A storage
// failure is an error, not an empty list.
func (u *capsuleUsecase) List(ownerID string) ([]*capsuledomain.Capsule, error) {
	capsules, err := u.repo.FindByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", capsuledomain.ErrPersistence, err)
	}
	return capsules, nil
}

// Create validates input, uploads media before the record is written (the
// record never points at a blob that does not exist yet), persists the
// capsule, then queues enrichment. Enrichment never fails Create.
func (u *capsuleUsecase) Create(ctx context.Context, ownerID string, in CreateInput) (*capsuledomain.Capsule, error) {
	if ownerID == "" {
		return nil, capsuledomain.ErrAuth
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", capsuledomain.ErrValidation)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", capsuledomain.ErrValidation)
	}
	if in.ReleaseAt.IsZero() {
		return nil, fmt.Errorf("%w: release date is required", capsuledomain.ErrValidation)
	}
	if in.ReleaseAt.Before(time.Now().Add(-time.Minute)) {
		return nil, fmt.Errorf("%w: release date must be in the future", capsuledomain.ErrValidation)
	}
	if in.Media != nil && in.Media.Size > capsuledomain.MaxMediaBytes {
		return nil, fmt.Errorf("%w: file size must be less than 10MB", capsuledomain.ErrUpload)
	}

	capsule := &capsuledomain.Capsule{
		UserID:    ownerID,
		Title:     in.Title,
		Content:   in.Content,
		ReleaseAt: in.ReleaseAt.UTC(),
		AIStatus:  capsuledomain.AIStatusPending,
	}

	if in.Media != nil {
		key := storage.MediaKey(ownerID, in.Media.Filename)
		if err := u.media.Upload(ctx, key, in.Media.Reader, in.Media.ContentType); err != nil {
			return nil, fmt.Errorf("%w: %v", capsuledomain.ErrUpload, err)
		}
		url, err := u.media.SignedURL(ctx, key, u.signedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: could not sign media url: %v", capsuledomain.ErrUpload, err)
		}
		capsule.MediaURL = url
		capsule.MediaType = in.Media.ContentType
	}

	if err := u.repo.Create(capsule); err != nil {
		return nil, fmt.Errorf("%w: %v", capsuledomain.ErrPersistence, err)
	}

	// Fire-and-forget: the worker owns the outcome from here, Create is done.
	u.enrichQueue.Enqueue(EnrichJob{
		CapsuleID: capsule.ID,
		Title:     capsule.Title,
		Content:   capsule.Content,
	})

	log.Info().Str("capsule_id", capsule.ID).Str("user_id", ownerID).Msg("capsule created")
	return capsule, nil
}

// Get fetches one capsule scoped to the caller. A missing id and a foreign
// id both come back as (nil, nil).
func (u *capsuleUsecase) Get(ownerID, id string) (*capsuledomain.Capsule, error) {
	capsule, err := u.repo.FindByID(ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", capsuledomain.ErrPersistence, err)
	}
	return capsule, nil
}

// Unlock flips the manual override on the caller's own capsule.
func (u *capsuleUsecase) Unlock(ownerID, id string) (*capsuledomain.Capsule, error) {
	if err := u.repo.MarkUnlocked(ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, capsuledomain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", capsuledomain.ErrPersistence, err)
	}
	return u.repo.FindByID(ownerID, id)
}
