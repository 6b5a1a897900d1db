package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"daybreak/backend/internal/auth"
	"daybreak/backend/internal/game"
	"daybreak/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 64
	actionTimeout  = 5 * time.Second
)

// Inbound is a client frame naming an action on a game.
type Inbound struct {
	Event   string          `json:"event"`
	GameID  string          `json:"gameId"`
	Payload json.RawMessage `json:"payload"`
}

// Gateway terminates websocket connections for authenticated users and
// routes their actions to game sessions.
type Gateway struct {
	registry *game.Registry
	hub      *hub.Hub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func New(registry *game.Registry, h *hub.Hub, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		registry: registry,
		hub:      h,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// conn is one websocket connection of one user.
type conn struct {
	gw     *Gateway
	ws     *websocket.Conn
	userID string
	id     string
	send   hub.Client
	log    *zap.Logger

	mu    sync.Mutex
	games map[string]bool
}

// Serve upgrades an authenticated request to a websocket carrying
// {"event","gameId","payload"} frames in both directions. It must run after
// auth.AuthMiddleware.
func (g *Gateway) Serve(c *gin.Context) {
	userID := auth.UserID(c)
	ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.log.Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	cn := &conn{
		gw:     g,
		ws:     ws,
		userID: userID,
		id:     uuid.NewString(),
		send:   make(hub.Client, sendBuffer),
		games:  make(map[string]bool),
	}
	cn.log = g.log.With(zap.String("user_id", userID), zap.String("conn_id", cn.id))
	g.hub.Subscribe(userID, cn.send)
	cn.log.Info("client connected")

	go cn.writePump()
	cn.readPump()
}

func (c *conn) readPump() {
	defer c.teardown()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in Inbound
		if err := c.ws.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read failed", zap.Error(err))
			}
			if malformed(err) {
				c.reply("", game.Validation("frame is not valid JSON"))
				continue
			}
			return
		}
		c.handle(in)
	}
}

func malformed(err error) bool {
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	return errors.As(err, &syntax) || errors.As(err, &typ)
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) handle(in Inbound) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	gameID, out, err := c.gw.dispatch(ctx, c, in)
	if err != nil {
		c.reply(gameID, err)
		return
	}
	c.gw.deliver(gameID, out)
}

func (c *conn) reply(gameID string, err error) {
	c.gw.hub.Send(c.userID, c.send, hub.Event{Event: "error", GameID: gameID, Payload: game.AsError(err)})
}

func (g *Gateway) deliver(gameID string, out []game.Outbound) {
	for _, o := range out {
		g.hub.Deliver(o.Targets, hub.Event{Event: o.Event, GameID: gameID, Payload: o.Payload})
	}
}

func (c *conn) track(gameID string) {
	c.mu.Lock()
	c.games[gameID] = true
	c.mu.Unlock()
}

func (c *conn) forget(gameID string) {
	c.mu.Lock()
	delete(c.games, gameID)
	c.mu.Unlock()
}

// teardown marks the user disconnected in every game this connection joined.
func (c *conn) teardown() {
	c.gw.hub.Unsubscribe(c.userID, c.send)

	c.mu.Lock()
	games := make([]string, 0, len(c.games))
	for id := range c.games {
		games = append(games, id)
	}
	c.games = map[string]bool{}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	for _, id := range games {
		s, err := c.gw.registry.Get(ctx, id)
		if err != nil {
			continue
		}
		out, err := s.Disconnect(ctx, c.userID, c.id)
		if err != nil {
			c.log.Debug("disconnect skipped", zap.String("game_id", id), zap.Error(err))
			continue
		}
		c.gw.deliver(id, out)
	}
	c.log.Info("client disconnected", zap.Int("games", len(games)))
}
