package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/repository"
	"github.com/iamasit07/connect4/internal/service/game"
	"github.com/iamasit07/connect4/internal/transport/websocket"
	"github.com/iamasit07/connect4/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeHistory struct {
	records map[string]domain.GameRecord
	err     error
}

func (f *fakeHistory) ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.GameRecord{}
	for _, r := range f.records {
		if len(out) == limit {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeHistory) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.records[gameID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

type fakeSnapshots map[string]domain.Snapshot

func (f fakeSnapshots) Get(ctx context.Context, gameID string) (*domain.Snapshot, error) {
	snap, ok := f[gameID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &snap, nil
}

type fixture struct {
	router  *gin.Engine
	hub     *websocket.Hub
	session *game.GameSession
}

func setup(t *testing.T, history GameHistory) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := websocket.NewHub(nil)
	sm := game.NewSessionManager(game.WithBroadcaster(hub))
	session, err := sm.CreateSession(context.Background(),
		domain.Player{Name: "Player 1", Symbol: "X"},
		domain.Player{Name: "Player 2", Symbol: "O"})
	require.NoError(t, err)

	cached, err := domain.NewGame(domain.Player{Symbol: "A"}, domain.Player{Symbol: "B"})
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Sessions:       sm,
		Hub:            hub,
		Snapshots:      fakeSnapshots{"cached": cached.Snapshot("cached")},
		History:        history,
		AllowedOrigins: []string{"http://localhost:8080"},
		JWTSecret:      testSecret,
	})
	return fixture{router: router, hub: hub, session: session}
}

func get(t *testing.T, router http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, gameID string) string {
	t.Helper()
	tok, err := auth.GenerateWatchToken(gameID, testSecret, time.Minute)
	require.NoError(t, err)
	return tok
}

func TestHealthz(t *testing.T) {
	f := setup(t, nil)
	rec := get(t, f.router, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","activeGames":1}`, rec.Body.String())
}

func TestGetLiveGames(t *testing.T) {
	f := setup(t, nil)
	rec := get(t, f.router, "/api/watch")
	require.Equal(t, http.StatusOK, rec.Code)

	var games []domain.LiveGame
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, f.session.GameID, games[0].GameID)
}

func TestGetGame_RequiresMatchingToken(t *testing.T) {
	f := setup(t, nil)
	id := f.session.GameID

	assert.Equal(t, http.StatusUnauthorized, get(t, f.router, "/api/watch/"+id).Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, f.router, "/api/watch/"+id+"?token=garbage").Code)
	assert.Equal(t, http.StatusForbidden, get(t, f.router, "/api/watch/"+id+"?token="+token(t, "other")).Code)

	_, err := f.session.HandleColumn(context.Background(), 4)
	require.NoError(t, err)

	rec := get(t, f.router, "/api/watch/"+id, "Authorization", "Bearer "+token(t, id))
	require.Equal(t, http.StatusOK, rec.Code)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.MoveCount)
	assert.Equal(t, "X", snap.Board[5][3])
}

func TestGetGame_FallsBackToSnapshotCache(t *testing.T) {
	f := setup(t, nil)

	rec := get(t, f.router, "/api/watch/cached?token="+token(t, "cached"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"gameId":"cached"`)

	rec = get(t, f.router, "/api/watch/missing?token="+token(t, "missing"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	f := setup(t, nil)

	rec := get(t, f.router, "/api/watch", "Origin", "http://localhost:8080")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, f.router, "/api/watch", "Origin", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHistory(t *testing.T) {
	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	history := &fakeHistory{records: map[string]domain.GameRecord{
		"g1": {GameID: "g1", Player1: "Player 1", Player2: "Player 2", Winner: "Player 1",
			Reason: domain.ReasonConnectFour, TotalMoves: 7, FinishedAt: finished},
	}}
	f := setup(t, history)

	rec := get(t, f.router, "/api/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []historyItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Player 1", items[0].Winner)
	assert.Equal(t, "2026-01-02T03:04:05Z", items[0].FinishedAt)

	assert.Equal(t, http.StatusBadRequest, get(t, f.router, "/api/history?limit=zero").Code)
	assert.Equal(t, http.StatusOK, get(t, f.router, "/api/history/g1").Code)
	assert.Equal(t, http.StatusNotFound, get(t, f.router, "/api/history/nope").Code)

	history.err = errors.New("database down")
	assert.Equal(t, http.StatusInternalServerError, get(t, f.router, "/api/history").Code)
}

func TestHistory_Disabled(t *testing.T) {
	f := setup(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, f.router, "/api/history").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, f.router, "/api/history/g1").Code)
}

func TestServeWatch_StreamsMoves(t *testing.T) {
	f := setup(t, nil)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	id := f.session.GameID
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/watch/" + id + "?token=" + token(t, id)
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg websocket.WatchMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.NotNil(t, msg.Snapshot)
	assert.Equal(t, 0, msg.Snapshot.MoveCount)

	_, err = f.session.HandleColumn(context.Background(), 2)
	require.NoError(t, err)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 1, msg.Snapshot.MoveCount)
	assert.Equal(t, 1, f.hub.SpectatorCount(id))
}
