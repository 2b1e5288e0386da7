package cleanup

import (
	"context"
	"time"

	"github.com/iamasit07/connect4/internal/service/game"
	"github.com/iamasit07/connect4/pkg/logging"
	"github.com/rs/zerolog"
)

const (
	FinishedTTL = time.Hour
	StaleTTL    = 24 * time.Hour // since the last move
)

type RoomCloser interface {
	CloseRoom(gameID string)
}

type SnapshotEvicter interface {
	Delete(ctx context.Context, gameID string) error
}

type Worker struct {
	SessionManager *game.SessionManager
	Rooms          RoomCloser
	Snapshots      SnapshotEvicter
	Interval       time.Duration

	logger zerolog.Logger
}

// NewWorker builds a worker; rooms and snapshots may be nil.
func NewWorker(sm *game.SessionManager, rooms RoomCloser, snapshots SnapshotEvicter, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Worker{
		SessionManager: sm,
		Rooms:          rooms,
		Snapshots:      snapshots,
		Interval:       interval,
		logger:         logging.Component("cleanup"),
	}
}

// Start runs one pass immediately and then one per interval until ctx is
// cancelled. It does not block.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.RunOnce(ctx, time.Now())

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				w.logger.Debug().Msg("background worker stopped")
				return
			case now := <-ticker.C:
				w.RunOnce(ctx, now)
			}
		}
	}()
	w.logger.Info().Dur("interval", w.Interval).Msg("background worker started")
}

// RunOnce evicts expired sessions and everything hanging off them. It
// returns the evicted game ids.
func (w *Worker) RunOnce(ctx context.Context, now time.Time) []string {
	removed := w.SessionManager.CleanupOldSessions(now, FinishedTTL, StaleTTL)
	for _, gameID := range removed {
		if w.Rooms != nil {
			w.Rooms.CloseRoom(gameID)
		}
		if w.Snapshots != nil {
			if err := w.Snapshots.Delete(ctx, gameID); err != nil {
				w.logger.Warn().Err(err).Str("game", gameID).Msg("error deleting cached snapshot")
			}
		}
	}
	if len(removed) > 0 {
		w.logger.Info().Int("count", len(removed)).Msg("evicted expired games")
	}
	return removed
}
