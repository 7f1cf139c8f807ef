package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	authrepo "github.com/Ashutosh26l/samay-capsule/internal/auth/repository"
	capsulerepo "github.com/Ashutosh26l/samay-capsule/internal/capsule/repository"
	"github.com/Ashutosh26l/samay-capsule/pkg/fcm"
)

// PushSender is the slice of the FCM client the scheduler uses.
type PushSender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]string, error)
}

// ReleaseScheduler tells owners their capsule has opened. It periodically
// scans for capsules whose release date passed without a notification and
// pushes to every device the owner registered. Purely additive: a capsule
// unlocks on time whether or not this runs.
type ReleaseScheduler struct {
	capsuleRepo capsulerepo.CapsuleRepository
	deviceRepo  authrepo.DeviceTokenRepository
	sender      PushSender
	interval    time.Duration
	stopChan    chan struct{}
}

func NewReleaseScheduler(
	capsuleRepo capsulerepo.CapsuleRepository,
	deviceRepo authrepo.DeviceTokenRepository,
	sender PushSender,
) *ReleaseScheduler {
	return &ReleaseScheduler{
		capsuleRepo: capsuleRepo,
		deviceRepo:  deviceRepo,
		sender:      sender,
		interval:    time.Minute,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *ReleaseScheduler) Start() {
	if s.sender == nil {
		log.Info().Msg("push sender not available, release scheduler disabled")
		return
	}

	log.Info().Dur("interval", s.interval).Msg("release scheduler started")

	go func() {
		// Run immediately on start
		s.notifyDueCapsules()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.notifyDueCapsules()
			case <-s.stopChan:
				log.Info().Msg("release scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *ReleaseScheduler) Stop() {
	close(s.stopChan)
}

func (s *ReleaseScheduler) notifyDueCapsules() {
	now := time.Now()

	capsules, err := s.capsuleRepo.FindDueUnnotified(now)
	if err != nil {
		log.Error().Err(err).Msg("release scan failed")
		return
	}

	for _, capsule := range capsules {
		tokens, err := s.deviceRepo.GetTokensByUserID(capsule.UserID)
		if err != nil {
			log.Error().Err(err).Str("user_id", capsule.UserID).Msg("could not load device tokens")
			continue
		}

		// No registered device still consumes the notification: the scan
		// must not pick the same capsule up forever.
		if len(tokens) == 0 {
			s.markNotified(capsule.ID, now)
			continue
		}

		tokenStrings := make([]string, 0, len(tokens))
		for _, t := range tokens {
			tokenStrings = append(tokenStrings, t.Token)
		}

		failedTokens, err := s.sender.SendToDevices(context.Background(), tokenStrings, fcm.NotificationData{
			Title: "Your time capsule is ready",
			Body:  capsule.Title + " has reached its release date. Open it to read your message.",
			Data: map[string]string{
				"type":         "capsule_released",
				"capsule_id":   capsule.ID,
				"click_action": "/capsule/" + capsule.ID,
			},
		})
		if err != nil {
			log.Error().Err(err).Str("capsule_id", capsule.ID).Msg("push send failed")
			continue
		}

		if len(failedTokens) > 0 {
			if err := s.deviceRepo.DeleteTokens(failedTokens); err != nil {
				log.Warn().Err(err).Int("count", len(failedTokens)).Msg("could not drop stale device tokens")
			}
		}

		s.markNotified(capsule.ID, now)
		log.Info().Str("capsule_id", capsule.ID).Msg("release notification sent")
	}
}

func (s *ReleaseScheduler) markNotified(capsuleID string, at time.Time) {
	if err := s.capsuleRepo.MarkNotified(capsuleID, at); err != nil {
		log.Error().Err(err).Str("capsule_id", capsuleID).Msg("could not mark capsule notified")
	}
}
