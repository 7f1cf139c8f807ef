package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authdomain "github.com/Ashutosh26l/samay-capsule/internal/auth/domain"
)

// DeviceTokenRepository persists push-notification registrations.
type DeviceTokenRepository interface {
	Register(userID, token string) error
	Unregister(userID, token string) error
	GetTokensByUserID(userID string) ([]*authdomain.DeviceToken, error)
	DeleteTokens(tokens []string) error
}

type deviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

// Register is idempotent: re-registering an existing token refreshes its owner.
func (r *deviceTokenRepository) Register(userID, token string) error {
	var existing authdomain.DeviceToken
	err := r.db.Where("token = ?", token).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(&authdomain.DeviceToken{
				ID:        uuid.New().String(),
				UserID:    userID,
				Token:     token,
				CreatedAt: time.Now(),
			}).Error
		}
		return err
	}

	existing.UserID = userID
	return r.db.Save(&existing).Error
}

func (r *deviceTokenRepository) Unregister(userID, token string) error {
	return r.db.Where("user_id = ? AND token = ?", userID, token).
		Delete(&authdomain.DeviceToken{}).Error
}

func (r *deviceTokenRepository) GetTokensByUserID(userID string) ([]*authdomain.DeviceToken, error) {
	var tokens []*authdomain.DeviceToken
	err := r.db.Where("user_id = ?", userID).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteTokens removes registrations the push backend reported as stale.
func (r *deviceTokenRepository) DeleteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.Where("token IN ?", tokens).Delete(&authdomain.DeviceToken{}).Error
}
