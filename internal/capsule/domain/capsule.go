package domain

import "time"

// Enrichment status values for Capsule.AIStatus.
const (
	AIStatusPending = "pending"
	AIStatusDone    = "done"
	AIStatusFailed  = "failed"
)

// MaxMediaBytes is the upload ceiling for attached media.
const MaxMediaBytes = 10 << 20 // 10 MiB

// Capsule is a persisted user message with a scheduled future reveal time.
// ID, UserID and CreatedAt are immutable after creation; the AI fields are
// written exactly once by the enrichment step and the record is otherwise
// read-only apart from the manual unlock flag.
type Capsule struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"index;not null"`
	Title         string    `json:"title" gorm:"not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	MediaURL      string    `json:"media_url,omitempty" gorm:"type:text"`
	MediaType     string    `json:"media_type,omitempty"`
	ReleaseAt     time.Time `json:"release_date" gorm:"index;not null"`
	CreatedAt     time.Time `json:"created_at"`
	AISummary     string    `json:"ai_summary,omitempty" gorm:"type:text"`
	AIFutureReply string    `json:"ai_future_reply,omitempty" gorm:"type:text"`
	AIStatus      string    `json:"ai_status" gorm:"default:pending"`
	IsPublic      bool      `json:"is_public" gorm:"default:false"`
	IsUnlocked    bool      `json:"is_unlocked" gorm:"default:false"`

	// Set once the owner has been notified that the capsule opened.
	NotifiedAt *time.Time `json:"-"`
}

// TableName specifies the table name for GORM
func (Capsule) TableName() string {
	return "capsules"
}
