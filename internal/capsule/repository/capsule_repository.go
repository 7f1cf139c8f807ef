package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	capsuledomain "github.com/Ashutosh26l/samay-capsule/internal/capsule/domain"
)

// CapsuleRepository is the ownership-scoped persistence surface. Every read
// and write is keyed by the owner; a capsule belonging to another user is
// indistinguishable from one that does not exist.
type CapsuleRepository interface {
	Create(capsule *capsuledomain.Capsule) error
	FindByOwner(ownerID string) ([]*capsuledomain.Capsule, error)
	FindByID(ownerID, id string) (*capsuledomain.Capsule, error)
	MarkUnlocked(ownerID, id string) error

	// Release-notification scan, not ownership-scoped: capsules whose
	// release date has passed and whose owner has not been notified yet.
	FindDueUnnotified(now time.Time) ([]*capsuledomain.Capsule, error)
	MarkNotified(id string, at time.Time) error
}

// capsuleRepository implements CapsuleRepository using GORM
type capsuleRepository struct {
	db *gorm.DB
}

// NewCapsuleRepository creates a new instance of capsuleRepository
func NewCapsuleRepository(db *gorm.DB) CapsuleRepository {
	return &capsuleRepository{db: db}
}

func (r *capsuleRepository) Create(capsule *capsuledomain.Capsule) error {
	if capsule.ID == "" {
		capsule.ID = uuid.New().String()
	}
	capsule.CreatedAt = time.Now()
	if capsule.AIStatus == "" {
		capsule.AIStatus = capsuledomain.AIStatusPending
	}
	return r.db.Create(capsule).Error
}

func (r *capsuleRepository) FindByOwner(ownerID string) ([]*capsuledomain.Capsule, error) {
	var capsules []*capsuledomain.Capsule
	err := r.db.Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&capsules).Error
	if err != nil {
		return nil, err
	}
	return capsules, nil
}

func (r *capsuleRepository) FindByID(ownerID, id string) (*capsuledomain.Capsule, error) {
	var capsule capsuledomain.Capsule
	err := r.db.Where("id = ? AND user_id = ?", id, ownerID).First(&capsule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &capsule, nil
}

func (r *capsuleRepository) MarkUnlocked(ownerID, id string) error {
	res := r.db.Model(&capsuledomain.Capsule{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("is_unlocked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *capsuleRepository) FindDueUnnotified(now time.Time) ([]*capsuledomain.Capsule, error) {
	var capsules []*capsuledomain.Capsule
	err := r.db.Where("release_at <= ? AND notified_at IS NULL", now).
		Find(&capsules).Error
	if err != nil {
		return nil, err
	}
	return capsules, nil
}

func (r *capsuleRepository) MarkNotified(id string, at time.Time) error {
	return r.db.Model(&capsuledomain.Capsule{}).
		Where("id = ?", id).
		Update("notified_at", at).Error
}
