package http

import (
	"context"
	"log"
	nethttp "net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"shinypath-api/res/auth"
	"shinypath-api/sys/http/middleware"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsSendBufferSize = 16
)

// Event is one change notification pushed to connected admin panels. The
// admin UI polls as a fallback; these events are the push half of the
// refresh model.
type Event struct {
	Resource string `json:"resource"` // "quotes", "pricing", "settings", "templates"
	Action   string `json:"action"`   // "created", "updated", "deleted"
	ID       string `json:"id"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan Event
}

// Hub fans Event broadcasts out to every connected websocket client. Slow
// clients get dropped rather than backing up the hub.
type Hub struct {
	logger *log.Logger

	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan Event
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    map[*wsClient]bool{},
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan Event, 64),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
			}

		case event := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Broadcast never blocks the caller; when the hub is saturated the event is
// dropped and the admin panel falls back to its poll cycle.
func (h *Hub) Broadcast(resource, action, id string) {
	select {
	case h.broadcast <- Event{Resource: resource, Action: action, ID: id}:
	default:
		h.logger.Printf("Hub broadcast buffer full, dropping event %s/%s/%s", resource, action, id)
	}
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *nethttp.Request) bool {
		environment := os.Getenv("ENVIRONMENT")

		// In production, only allow connections from the trusted frontend domain
		if environment == "production" {
			origin := r.Header.Get("Origin")
			allowedOrigin := os.Getenv("FRONTEND_URL")
			if allowedOrigin == "" {
				return false
			}
			return origin == allowedOrigin
		}

		// In development, allow all origins for easier testing
		return true
	},
}

// wsAuthenticated accepts either a bearer header (resolved by the auth
// middleware) or a token query parameter, since browsers cannot attach
// headers to websocket connects.
func (s *Server) wsAuthenticated(c *gin.Context) bool {
	if middleware.GetCurrentUser(c) != nil {
		return true
	}

	token := c.Query("token")
	if token == "" {
		return false
	}

	var claims auth.AccessTokenClaims
	if err := s.Auth.ValidateToken(token, &claims); err != nil {
		return false
	}

	user, err := s.Store.Users().Get(c.Request.Context(), claims.UserID)
	return err == nil && user != nil
}

func (s *Server) handleWS(c *gin.Context) {
	if !s.wsAuthenticated(c) {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Printf("Error upgrading websocket connection: %s", err)
		return
	}

	client := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Event, wsSendBufferSize),
	}
	s.hub.register <- client

	go client.writePump()
	go client.readPump(s.hub)
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages; the channel is server-push only. It
// exists to notice closed connections and answer pings.
func (c *wsClient) readPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
