package repository

import (
	"errors"

	"gorm.io/gorm"

	capsuledomain "github.com/Ashutosh26l/samay-capsule/internal/capsule/domain"
)

// EnrichmentWriter is the narrow service-level write path used by the AI
// enrichment step. It deliberately bypasses ownership scoping (the write must
// succeed no matter which user's session triggered enrichment) and can touch
// nothing but the two AI fields and the status of a capsule identified by id.
type EnrichmentWriter interface {
	SetEnrichment(id, summary, futureReply string) error
	MarkEnrichmentFailed(id string) error
}

type enrichmentWriter struct {
	db *gorm.DB
}

// NewEnrichmentWriter creates the service-level enrichment write path.
func NewEnrichmentWriter(db *gorm.DB) EnrichmentWriter {
	return &enrichmentWriter{db: db}
}

func (w *enrichmentWriter) SetEnrichment(id, summary, futureReply string) error {
	res := w.db.Model(&capsuledomain.Capsule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_summary":      summary,
			"ai_future_reply": futureReply,
			"ai_status":       capsuledomain.AIStatusDone,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("capsule not found for enrichment write")
	}
	return nil
}

func (w *enrichmentWriter) MarkEnrichmentFailed(id string) error {
	return w.db.Model(&capsuledomain.Capsule{}).
		Where("id = ?", id).
		Update("ai_status", capsuledomain.AIStatusFailed).Error
}
