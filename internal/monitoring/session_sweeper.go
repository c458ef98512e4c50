package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/askora/askora-auth/internal/services"
)

// SessionSweeper periodically deletes sessions whose validity window has
// passed. It exists purely for housekeeping: request-time expiry checks
// compare against the stored expires_at and never rely on the sweeper
// having run.
type SessionSweeper struct {
	authSvc  *services.AuthService
	schedule cron.Schedule
	nextRun  time.Time
	ticker   *time.Ticker
	done     chan bool
}

// NewSessionSweeper creates a sweeper firing on the given cron expression
// (standard five-field syntax).
func NewSessionSweeper(authSvc *services.AuthService, cronExpr string) (*SessionSweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &SessionSweeper{
		authSvc:  authSvc,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the sweeper's ticking loop.
func (s *SessionSweeper) Run() {
	log.Info().Msg("Starting session sweeper...")
	s.nextRun = s.schedule.Next(time.Now())
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping session sweeper.")
			return
		case now := <-s.ticker.C:
			if now.After(s.nextRun) {
				s.sweep()
				s.nextRun = s.schedule.Next(now)
			}
		}
	}
}

// Stop halts the sweeper.
func (s *SessionSweeper) Stop() {
	s.done <- true
}

func (s *SessionSweeper) sweep() {
	purged, err := s.authSvc.PurgeExpiredSessions()
	if err != nil {
		log.Error().Err(err).Msg("Session sweep failed")
		return
	}
	if purged > 0 {
		log.Info().Int64("purged", purged).Msg("Removed expired sessions")
	}
}
