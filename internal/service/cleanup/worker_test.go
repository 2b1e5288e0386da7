package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/service/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	closed  []string
	deleted []string
	err     error
}

func (r *recorder) CloseRoom(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, gameID)
}

func (r *recorder) Delete(ctx context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, gameID)
	return r.err
}

func (r *recorder) closedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.closed)
}

func newSession(t *testing.T, sm *game.SessionManager) *game.GameSession {
	t.Helper()
	s, err := sm.CreateSession(context.Background(),
		domain.Player{Name: "Player 1", Symbol: "X"},
		domain.Player{Name: "Player 2", Symbol: "O"})
	require.NoError(t, err)
	return s
}

func TestRunOnce(t *testing.T) {
	sm := game.NewSessionManager()
	active := newSession(t, sm)
	finished := newSession(t, sm)
	require.NoError(t, finished.Abandon(context.Background()))

	rec := &recorder{err: errors.New("redis down")}
	w := NewWorker(sm, rec, rec, time.Minute)

	assert.Empty(t, w.RunOnce(context.Background(), time.Now()))

	removed := w.RunOnce(context.Background(), time.Now().Add(FinishedTTL+time.Minute))
	assert.Equal(t, []string{finished.GameID}, removed)
	assert.Equal(t, []string{finished.GameID}, rec.closed)
	assert.Equal(t, []string{finished.GameID}, rec.deleted)

	removed = w.RunOnce(context.Background(), time.Now().Add(StaleTTL+time.Minute))
	assert.Equal(t, []string{active.GameID}, removed)
}

func TestStart_StopsWithContext(t *testing.T) {
	sm := game.NewSessionManager()
	s := newSession(t, sm)
	s.CreatedAt = time.Now().Add(-2 * StaleTTL)
	s.LastActivity = s.CreatedAt

	rec := &recorder{}
	w := NewWorker(sm, rec, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	require.Eventually(t, func() bool { return rec.closedCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	_, ok := sm.GetSession(s.GameID)
	assert.False(t, ok)
}
