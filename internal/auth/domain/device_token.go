package domain

import "time"

// DeviceToken is a push-notification registration for one of a user's
// devices. A user may hold several at once.
type DeviceToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (DeviceToken) TableName() string {
	return "device_tokens"
}
