package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frida7771/GomokuAI/internal/config"
	"github.com/Frida7771/GomokuAI/internal/domain"
	"github.com/Frida7771/GomokuAI/internal/service/bot"
	"github.com/Frida7771/GomokuAI/internal/service/game"
	"github.com/Frida7771/GomokuAI/pkg/auth"
)

type fakeArchive struct {
	games []domain.GameRecord
}

func (f *fakeArchive) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	for i := range f.games {
		if f.games[i].GameID == gameID {
			return &f.games[i], nil
		}
	}
	return nil, nil
}

func (f *fakeArchive) ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	return f.games[:min(limit, len(f.games))], nil
}

type testServer struct {
	router   *gin.Engine
	sessions *game.SessionManager
}

func newTestServer(t *testing.T, archive GameArchive) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTSecret: "test-secret", GameTokenTTL: time.Hour}
	t.Cleanup(func() { config.AppConfig = prev })

	sm := game.NewSessionManager(game.ManagerOptions{})
	t.Cleanup(sm.Wait)

	router := NewRouter(RouterDeps{
		Games:          NewGameHandler(sm, bot.Easy),
		History:        NewHistoryHandler(archive),
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &testServer{router: router, sessions: sm}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) createGame(t *testing.T, body any) createGameResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/games", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp createGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) domain.GameState {
	t.Helper()
	var state domain.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	return state
}

func TestCreateGameDefaults(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.createGame(t, nil)

	assert.NotEmpty(t, resp.GameID)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Alice", resp.Bot)
	assert.Equal(t, "easy", resp.State.Difficulty)
	assert.Equal(t, "black", resp.State.HumanSide)
	assert.Empty(t, resp.State.Moves)
	assert.Len(t, resp.State.Board, domain.BoardSize)
}

func TestCreateGameRejectsBadInput(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/games", "", map[string]string{"difficulty": "godlike"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/games", "", map[string]string{"humanSide": "red"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlayAgainstEngine(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.createGame(t, map[string]string{"difficulty": "easy", "humanSide": "white"})
	s.sessions.Wait()

	path := "/api/games/" + resp.GameID
	state := decodeState(t, s.do(t, http.MethodGet, path, resp.Token, nil))
	require.Len(t, state.Moves, 1)
	assert.Equal(t, domain.MoveView{Row: 7, Col: 7, Side: "black", Sequence: 1}, state.Moves[0])

	w := s.do(t, http.MethodPost, path+"/move", resp.Token, map[string]int{"row": 7, "col": 7})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, path+"/move", resp.Token, map[string]int{"row": 6, "col": 6})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s.sessions.Wait()

	state = decodeState(t, s.do(t, http.MethodGet, path, resp.Token, nil))
	assert.Len(t, state.Moves, 3)
	assert.Equal(t, "white", state.CurrentSide)

	w = s.do(t, http.MethodPost, path+"/undo", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeState(t, w).Moves, 1)

	w = s.do(t, http.MethodPost, path+"/redo", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeState(t, w).Moves, 3)

	w = s.do(t, http.MethodPost, path+"/redo", resp.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMoveRequiresCoordinates(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.createGame(t, nil)

	w := s.do(t, http.MethodPost, "/api/games/"+resp.GameID+"/move", resp.Token, map[string]int{"row": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/games/"+resp.GameID+"/move", resp.Token, map[string]int{"row": 3, "col": 15})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameRoutesRequireMatchingToken(t *testing.T) {
	s := newTestServer(t, nil)
	first := s.createGame(t, nil)
	second := s.createGame(t, nil)

	w := s.do(t, http.MethodGet, "/api/games/"+first.GameID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/games/"+first.GameID, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/games/"+first.GameID, second.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	token, err := auth.GenerateGameToken("gone", "black")
	require.NoError(t, err)
	w = s.do(t, http.MethodGet, "/api/games/gone", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCookieAuthAndAbandon(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/games", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp createGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, resp.Token, cookies[0].Value)

	path := "/api/games/" + resp.GameID
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, path, resp.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, s.sessions.ActiveSessions())

	w = s.do(t, http.MethodGet, path, resp.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetAndHint(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.createGame(t, nil)
	path := "/api/games/" + resp.GameID

	w := s.do(t, http.MethodGet, path+"/hint", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hint domain.Position
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hint))
	assert.Equal(t, domain.Position{Row: 7, Col: 7}, hint)

	s.do(t, http.MethodPost, path+"/move", resp.Token, map[string]int{"row": 7, "col": 7})
	s.sessions.Wait()

	w = s.do(t, http.MethodPost, path+"/reset", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeState(t, w).Moves)
}

func TestHistory(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/api/history", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	archive := &fakeArchive{games: []domain.GameRecord{
		{GameID: "a", Winner: "black", Reason: "five_in_row"},
		{GameID: "b", Reason: "draw"},
	}}
	s = newTestServer(t, archive)

	w = s.do(t, http.MethodGet, "/api/history?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var games []domain.GameRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "a", games[0].GameID)

	w = s.do(t, http.MethodGet, "/api/history?limit=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/history/b", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/history/zzz", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
