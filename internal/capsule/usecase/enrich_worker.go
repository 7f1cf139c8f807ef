package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Ashutosh26l/samay-capsule/internal/capsule/repository"
)

// EnrichJob carries everything the worker needs so it never reads the
// capsule back before generating.
type EnrichJob struct {
	CapsuleID string
	Title     string
	Content   string
}

// EnrichQueuer is the capsule usecase's view of the worker: hand over a job,
// learn whether it was accepted. At-most-once, no retry.
type EnrichQueuer interface {
	Enqueue(job EnrichJob) bool
}

// EnrichWorker processes enrichment jobs in the background. Capsule creation
// returns before enrichment runs; the capsule's ai_status field is the only
// way the outcome is observable.
type EnrichWorker struct {
	enricher    EnrichUsecase
	writer      repository.EnrichmentWriter
	jobQueue    chan EnrichJob
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	mu          sync.Mutex
}

// NewEnrichWorker creates the worker pool (not yet running).
func NewEnrichWorker(enricher EnrichUsecase, writer repository.EnrichmentWriter, workerCount int) *EnrichWorker {
	if workerCount <= 0 {
		workerCount = 3
	}
	return &EnrichWorker{
		enricher:    enricher,
		writer:      writer,
		jobQueue:    make(chan EnrichJob, 100),
		workerCount: workerCount,
	}
}

// Start launches the workers. Safe to call once; later calls are no-ops.
func (w *EnrichWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}

	for i := 0; i < w.workerCount; i++ {
		w.workerWg.Add(1)
		go w.worker()
	}
	w.started = true
	log.Info().Int("workers", w.workerCount).Msg("enrichment workers started")
}

// Stop drains the queue and waits for in-flight jobs.
func (w *EnrichWorker) Stop() {
	close(w.jobQueue)
	w.workerWg.Wait()
	log.Info().Msg("enrichment workers stopped")
}

func (w *EnrichWorker) worker() {
	defer w.workerWg.Done()

	for job := range w.jobQueue {
		w.processJob(job)
	}
}

func (w *EnrichWorker) processJob(job EnrichJob) {
	_, _, err := w.enricher.Process(context.Background(), job.CapsuleID, job.Title, job.Content)
	if err != nil {
		// Swallowed: creation already succeeded, the status field records it.
		log.Warn().Err(err).Str("capsule_id", job.CapsuleID).Msg("enrichment failed")
		return
	}
	log.Info().Str("capsule_id", job.CapsuleID).Msg("capsule enriched")
}

// Enqueue adds a job without blocking. A full queue counts as a failed
// enrichment attempt so the capsule never stays pending forever.
func (w *EnrichWorker) Enqueue(job EnrichJob) bool {
	select {
	case w.jobQueue <- job:
		return true
	default:
		log.Warn().Str("capsule_id", job.CapsuleID).Msg("enrichment queue full, dropping job")
		if err := w.writer.MarkEnrichmentFailed(job.CapsuleID); err != nil {
			log.Error().Err(err).Str("capsule_id", job.CapsuleID).Msg("could not mark enrichment failed")
		}
		return false
	}
}
