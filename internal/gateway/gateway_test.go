package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"daybreak/backend/internal/auth"
	"daybreak/backend/internal/config"
	"daybreak/backend/internal/game"
	"daybreak/backend/internal/hub"
	"daybreak/backend/internal/storage"
	"daybreak/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "gateway-test"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: secret}
	os.Exit(m.Run())
}

type frame struct {
	Event   string          `json:"event"`
	GameID  string          `json:"gameId"`
	Payload json.RawMessage `json:"payload"`
}

func newServer(t *testing.T) (*httptest.Server, *game.Registry) {
	t.Helper()
	reg := game.NewRegistry(game.Options{
		Content:   storage.DefaultCatalog(),
		Passwords: auth.BcryptPasswords{Cost: bcrypt.MinCost},
	})
	gw := New(reg, hub.NewHub(nil), nil)

	r := gin.New()
	r.GET("/ws", auth.AuthMiddleware(), gw.Serve)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, reg
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	token, err := jwt.Sign([]byte(secret), userID, time.Minute)
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, event, gameID string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(frame{Event: event, GameID: gameID, Payload: raw}))
}

// expect reads frames until one named event arrives.
func expect(t *testing.T, ws *websocket.Conn, event string) frame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var f frame
		require.NoError(t, ws.ReadJSON(&f), "waiting for %s", event)
		if f.Event == event {
			return f
		}
	}
}

func TestRejectsUnauthenticatedUpgrade(t *testing.T) {
	srv, _ := newServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateJoinAndDisconnect(t *testing.T) {
	srv, reg := newServer(t)
	host := dial(t, srv, "host")
	send(t, host, "create-game", "", map[string]any{"name": "sunrise", "capacity": 2})
	created := expect(t, host, "game-created")
	require.NotEmpty(t, created.GameID)

	guest := dial(t, srv, "guest")
	send(t, guest, "join-game", created.GameID, nil)
	joined := expect(t, host, "player-joined")
	assert.Equal(t, created.GameID, joined.GameID)
	expect(t, guest, "player-joined")
	expect(t, guest, "phase-changed")

	var update struct {
		Actor string `json:"actor"`
		State struct {
			Phase string `json:"phase"`
		} `json:"state"`
	}
	phase := expect(t, host, "phase-changed")
	require.NoError(t, json.Unmarshal(phase.Payload, &update))
	assert.Equal(t, "SAGE_SELECTION", update.State.Phase)

	send(t, host, "join-team", created.GameID, map[string]int{"team": 1})
	failed := expect(t, host, "error")
	var gerr game.Error
	require.NoError(t, json.Unmarshal(failed.Payload, &gerr))
	assert.Equal(t, game.KindValidation, gerr.Kind)

	require.NoError(t, guest.Close())
	expect(t, host, "player-disconnected")

	s, err := reg.Get(context.Background(), created.GameID)
	require.NoError(t, err)
	assert.False(t, s.Game().Players["guest"].Connected)
}

func TestExitGameStillDisconnectsOnClose(t *testing.T) {
	srv, reg := newServer(t)
	host := dial(t, srv, "host")
	send(t, host, "create-game", "", map[string]any{"name": "wander", "capacity": 2})
	created := expect(t, host, "game-created")

	guest := dial(t, srv, "guest")
	send(t, guest, "join-game", created.GameID, nil)
	expect(t, guest, "player-joined")

	send(t, guest, "exit-game", created.GameID, nil)
	require.NoError(t, guest.Close())
	expect(t, host, "player-disconnected")

	s, err := reg.Get(context.Background(), created.GameID)
	require.NoError(t, err)
	guestState, ok := s.Game().Players["guest"]
	require.True(t, ok, "exit-game keeps the player attached")
	assert.False(t, guestState.Connected)
}

func TestErrorsStayWithCaller(t *testing.T) {
	srv, _ := newServer(t)
	ws := dial(t, srv, "solo")

	send(t, ws, "join-game", "", nil)
	missing := expect(t, ws, "error")
	assert.Contains(t, string(missing.Payload), "gameId is required")

	send(t, ws, "join-game", "no-such-game", nil)
	notFound := expect(t, ws, "error")
	assert.Equal(t, "no-such-game", notFound.GameID)
	assert.Contains(t, string(notFound.Payload), string(game.KindNotFound))

	send(t, ws, "teleport", "no-such-game", nil)
	unknown := expect(t, ws, "error")
	assert.Contains(t, string(unknown.Payload), "unknown event")

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	garbled := expect(t, ws, "error")
	assert.Contains(t, string(garbled.Payload), "not valid JSON")

	send(t, ws, "create-game", "", map[string]any{"name": "", "capacity": 2})
	invalid := expect(t, ws, "error")
	assert.Contains(t, string(invalid.Payload), string(game.KindValidation))
}

func TestPrivateGameRejectsWrongPassword(t *testing.T) {
	srv, _ := newServer(t)
	host := dial(t, srv, "host")
	send(t, host, "create-game", "", map[string]any{"name": "vault", "capacity": 2, "private": true, "password": "dawn"})
	created := expect(t, host, "game-created")

	guest := dial(t, srv, "guest")
	send(t, guest, "join-game", created.GameID, map[string]string{"password": "dusk"})
	expect(t, guest, "error")

	send(t, guest, "join-game", created.GameID, map[string]string{"password": "dawn"})
	expect(t, guest, "player-joined")
}
