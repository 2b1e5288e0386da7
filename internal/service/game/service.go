package game

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/pkg/logging"
	"github.com/iamasit07/connect4/pkg/uid"
	"github.com/rs/zerolog"
)

type GameRepository interface {
	SaveGame(ctx context.Context, record *domain.GameRecord) error
}

type SnapshotStore interface {
	Save(ctx context.Context, snap domain.Snapshot) error
	Delete(ctx context.Context, gameID string) error
}

type Broadcaster interface {
	Broadcast(gameID string, snap domain.Snapshot)
	CloseRoom(gameID string)
	SpectatorCount(gameID string) int
}

const saveTimeout = 10 * time.Second

// SessionManager owns every game played by this process.
type SessionManager struct {
	sessions map[string]*GameSession // gameID → GameSession
	mu       sync.RWMutex

	repo        GameRepository
	snapshots   SnapshotStore
	broadcaster Broadcaster

	saves  sync.WaitGroup
	logger zerolog.Logger
}

type Option func(*SessionManager)

func WithRepository(repo GameRepository) Option {
	return func(sm *SessionManager) { sm.repo = repo }
}

func WithSnapshotStore(store SnapshotStore) Option {
	return func(sm *SessionManager) { sm.snapshots = store }
}

func WithBroadcaster(b Broadcaster) Option {
	return func(sm *SessionManager) { sm.broadcaster = b }
}

func NewSessionManager(opts ...Option) *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*GameSession),
		logger:   logging.Component("session"),
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// GameSession wraps one Game. The mutex keeps spectator reads from racing
// the single writer that plays the turns.
type GameSession struct {
	GameID       string
	Game         *domain.Game
	CreatedAt    time.Time
	LastActivity time.Time // last accepted move, CreatedAt before the first
	FinishedAt   time.Time
	Reason       string

	mu      sync.Mutex
	manager *SessionManager
}

func (sm *SessionManager) CreateSession(ctx context.Context, p1, p2 domain.Player) (*GameSession, error) {
	g, err := domain.NewGame(p1, p2)
	if err != nil {
		return nil, err
	}
	gameID, err := uid.GenerateGameID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &GameSession{
		GameID:       gameID,
		Game:         g,
		CreatedAt:    now,
		LastActivity: now,
		manager:      sm,
	}

	sm.mu.Lock()
	sm.sessions[gameID] = session
	sm.mu.Unlock()

	sm.logger.Info().
		Str("game", gameID).
		Str("player1", g.Players[0].Name).
		Str("player2", g.Players[1].Name).
		Msg("created session")

	session.mu.Lock()
	snap := session.snapshotLocked()
	session.mu.Unlock()
	sm.publish(ctx, snap)

	return session, nil
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[gameID]; !exists {
		return fmt.Errorf("session %s not found", gameID)
	}
	delete(sm.sessions, gameID)
	sm.logger.Debug().Str("game", gameID).Msg("removed session")
	return nil
}

// GetActiveGames lists unfinished games, oldest first.
func (sm *SessionManager) GetActiveGames() []domain.LiveGame {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	games := []domain.LiveGame{}
	for _, s := range sessions {
		s.mu.Lock()
		if s.Game.IsFinished() {
			s.mu.Unlock()
			continue
		}
		live := domain.LiveGame{
			GameID:    s.GameID,
			Player1:   s.Game.Players[0].Name,
			Player2:   s.Game.Players[1].Name,
			Status:    s.Game.Status,
			MoveCount: s.Game.MoveCount,
			StartedAt: s.CreatedAt,
		}
		s.mu.Unlock()

		if sm.broadcaster != nil {
			live.SpectatorCount = sm.broadcaster.SpectatorCount(s.GameID)
		}
		games = append(games, live)
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].StartedAt.Before(games[j].StartedAt)
	})
	return games
}

// CleanupOldSessions drops games finished more than finishedTTL ago and
// unfinished games with no move for staleTTL. It returns the removed ids.
func (sm *SessionManager) CleanupOldSessions(now time.Time, finishedTTL, staleTTL time.Duration) []string {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	var removed []string
	for gameID, session := range sm.sessions {
		session.mu.Lock()
		finished := session.Game.IsFinished()
		expired := (finished && now.Sub(session.FinishedAt) > finishedTTL) ||
			(!finished && now.Sub(session.LastActivity) > staleTTL)
		session.mu.Unlock()

		if expired {
			delete(sm.sessions, gameID)
			removed = append(removed, gameID)
		}
	}

	if len(removed) > 0 {
		sm.logger.Info().Int("count", len(removed)).Msg("removed stale game sessions")
	}
	return removed
}

// Wait blocks until every pending history save has finished.
func (sm *SessionManager) Wait() {
	sm.saves.Wait()
}

func (sm *SessionManager) publish(ctx context.Context, snap domain.Snapshot) {
	if sm.snapshots != nil {
		if err := sm.snapshots.Save(ctx, snap); err != nil {
			sm.logger.Warn().Err(err).Str("game", snap.GameID).Msg("failed to cache snapshot")
		}
	}
	if sm.broadcaster != nil {
		sm.broadcaster.Broadcast(snap.GameID, snap)
	}
}

// saveGameAsync stores the finished game without holding up the turn loop.
func (sm *SessionManager) saveGameAsync(record domain.GameRecord) {
	if sm.repo == nil {
		return
	}

	sm.saves.Add(1)
	go func() {
		defer sm.saves.Done()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if err := sm.repo.SaveGame(ctx, &record); err != nil {
			sm.logger.Error().Err(err).Str("game", record.GameID).Msg("error saving game")
			return
		}
		sm.logger.Info().Str("game", record.GameID).Str("reason", record.Reason).Msg("game saved")
	}()
}

// HandleMove parses a raw column token and plays it for the current player.
func (gs *GameSession) HandleMove(ctx context.Context, input string) (domain.MoveResult, error) {
	return gs.play(ctx, func() (domain.MoveResult, error) {
		return gs.Game.MakeMoveInput(input)
	})
}

func (gs *GameSession) HandleColumn(ctx context.Context, column int) (domain.MoveResult, error) {
	return gs.play(ctx, func() (domain.MoveResult, error) {
		return gs.Game.MakeMove(column)
	})
}

// play runs one whole turn: validate, apply, alignment, tie. Only accepted
// moves are published.
func (gs *GameSession) play(ctx context.Context, move func() (domain.MoveResult, error)) (domain.MoveResult, error) {
	gs.mu.Lock()
	result, err := move()
	if err != nil {
		gs.mu.Unlock()
		gs.manager.logger.Debug().Err(err).Str("game", gs.GameID).Msg("rejected move")
		return result, err
	}

	gs.LastActivity = time.Now()

	var record *domain.GameRecord
	switch {
	case result.Win:
		record = gs.finishLocked(domain.ReasonConnectFour)
	case result.Tie:
		record = gs.finishLocked(domain.ReasonTie)
	}
	snap := gs.snapshotLocked()
	gs.mu.Unlock()

	gs.manager.logger.Debug().
		Str("game", gs.GameID).
		Int("player", result.Player+1).
		Stringer("cell", result.Coordinate).
		Msg("move played")

	gs.manager.publish(ctx, snap)
	if record != nil {
		gs.manager.logger.Info().Str("game", gs.GameID).Str("reason", record.Reason).Str("winner", record.Winner).Msg("game over")
		gs.manager.saveGameAsync(*record)
	}
	return result, nil
}

// Abandon ends the game on behalf of the player whose turn it is.
func (gs *GameSession) Abandon(ctx context.Context) error {
	gs.mu.Lock()
	if err := gs.Game.Abandon(gs.Game.Current); err != nil {
		gs.mu.Unlock()
		return err
	}
	record := gs.finishLocked(domain.ReasonAbandoned)
	snap := gs.snapshotLocked()
	gs.mu.Unlock()

	gs.manager.logger.Info().Str("game", gs.GameID).Msg("game abandoned")
	gs.manager.publish(ctx, snap)
	gs.manager.saveGameAsync(*record)
	return nil
}

func (gs *GameSession) finishLocked(reason string) *domain.GameRecord {
	gs.FinishedAt = time.Now()
	gs.Reason = reason
	record := gs.recordLocked()
	return &record
}

func (gs *GameSession) recordLocked() domain.GameRecord {
	g := gs.Game
	record := domain.GameRecord{
		GameID:          gs.GameID,
		Player1:         g.Players[0].Name,
		Player2:         g.Players[1].Name,
		Symbol1:         string(g.Players[0].Symbol),
		Symbol2:         string(g.Players[1].Symbol),
		Reason:          gs.Reason,
		TotalMoves:      g.MoveCount,
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
		Board:           g.Board.Strings(),
		Moves:           g.MoveLog(),
	}
	if g.Winner >= 0 {
		record.Winner = g.Players[g.Winner].Name
	}
	return record
}

func (gs *GameSession) snapshotLocked() domain.Snapshot {
	return gs.Game.Snapshot(gs.GameID)
}

func (gs *GameSession) Snapshot() domain.Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked()
}

// CurrentPlayer returns the index and a copy of the player to move.
func (gs *GameSession) CurrentPlayer() (int, domain.Player) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.Game.Current, *gs.Game.CurrentPlayer()
}

func (gs *GameSession) Render() string {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.Game.Board.Render()
}

func (gs *GameSession) IsFinished() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.Game.IsFinished()
}
