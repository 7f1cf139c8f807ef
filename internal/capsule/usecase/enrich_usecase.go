package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	capsuledomain "github.com/Ashutosh26l/samay-capsule/internal/capsule/domain"
	"github.com/Ashutosh26l/samay-capsule/internal/capsule/repository"
	"github.com/Ashutosh26l/samay-capsule/pkg/ai"
)

// EnrichUsecase runs the two generation calls for a capsule and persists both
// results through the narrow enrichment write path. There is no partial
// success: either both texts are generated and written together, or nothing
// but the failed status is recorded.
type EnrichUsecase interface {
	Process(ctx context.Context, capsuleID, title, content string) (summary, futureReply string, err error)
}

type enrichUsecase struct {
	aiService ai.EnrichmentService
	writer    repository.EnrichmentWriter
}

func NewEnrichUsecase(aiService ai.EnrichmentService, writer repository.EnrichmentWriter) EnrichUsecase {
	return &enrichUsecase{
		aiService: aiService,
		writer:    writer,
	}
}

func (u *enrichUsecase) Process(ctx context.Context, capsuleID, title, content string) (string, string, error) {
	if u.aiService == nil {
		return "", "", fmt.Errorf("%w: no AI provider configured", capsuledomain.ErrEnrichment)
	}

	summary, err := u.aiService.Summarize(ctx, title, content)
	if err != nil {
		u.markFailed(capsuleID)
		return "", "", fmt.Errorf("%w: summary: %v", capsuledomain.ErrEnrichment, err)
	}

	futureReply, err := u.aiService.FutureReply(ctx, title, content)
	if err != nil {
		u.markFailed(capsuleID)
		return "", "", fmt.Errorf("%w: future reply: %v", capsuledomain.ErrEnrichment, err)
	}

	if err := u.writer.SetEnrichment(capsuleID, summary, futureReply); err != nil {
		u.markFailed(capsuleID)
		return "", "", fmt.Errorf("%w: persist: %v", capsuledomain.ErrEnrichment, err)
	}

	return summary, futureReply, nil
}

func (u *enrichUsecase) markFailed(capsuleID string) {
	if err := u.writer.MarkEnrichmentFailed(capsuleID); err != nil {
		log.Error().Err(err).Str("capsule_id", capsuleID).Msg("could not mark enrichment failed")
	}
}
