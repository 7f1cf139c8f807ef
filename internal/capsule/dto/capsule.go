package dto

import (
	"time"

	capsuledomain "github.com/Ashutosh26l/samay-capsule/internal/capsule/domain"
)

// ProcessAIRequest is the body of the enrichment endpoint. Title may be empty;
// capsule id and content are required.
type ProcessAIRequest struct {
	CapsuleID string `json:"capsuleId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

type ProcessAIResponse struct {
	Success       bool   `json:"success"`
	AISummary     string `json:"ai_summary"`
	AIFutureReply string `json:"ai_future_reply"`
}

// CapsuleResponse is a capsule plus its derived lock state. Locked capsules
// are masked: content, media and AI fields are blanked so a client cannot
// peek ahead of the release date.
type CapsuleResponse struct {
	capsuledomain.Capsule
	IsLocked      bool   `json:"is_locked"`
	TimeRemaining string `json:"time_remaining,omitempty"`
}

// NewCapsuleResponse computes lock state at now and masks locked content.
func NewCapsuleResponse(c *capsuledomain.Capsule, now time.Time) CapsuleResponse {
	resp := CapsuleResponse{
		Capsule:       *c,
		IsLocked:      capsuledomain.IsLocked(c, now),
		TimeRemaining: capsuledomain.TimeRemaining(c, now),
	}
	if resp.IsLocked {
		resp.Content = ""
		resp.MediaURL = ""
		resp.MediaType = ""
		resp.AISummary = ""
		resp.AIFutureReply = ""
	}
	return resp
}
