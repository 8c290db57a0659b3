package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"tumaini_web/internal/middleware"
	"tumaini_web/internal/store"
)

const writeWait = 5 * time.Second

// StateMessage is what /ws/state streams: a slice change or a navigation request.
type StateMessage struct {
	Type     string `json:"type"`
	Slice    string `json:"slice,omitempty"`
	Location string `json:"location,omitempty"`
}

// StateHub fans state messages out to every connected client.
type StateHub struct {
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	broadcast chan StateMessage
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
}

// NewStateHub starts the broadcasting goroutine. Cross-origin sockets are
// accepted only from allowedOrigin.
func NewStateHub(allowedOrigin string) *StateHub {
	hub := &StateHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan StateMessage, 100),
		done:      make(chan struct{}),
	}
	hub.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
				return true
			}
			return middleware.OriginAllowed(origin, allowedOrigin)
		},
	}
	go hub.run()
	return hub
}

// run is the only writer, so connections never see concurrent writes.
func (h *StateHub) run() {
	for {
		select {
		case <-h.done:
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					logrus.WithError(err).WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("dropping state client after failed write")
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *StateHub) RegisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Debug("state client registered")
}

func (h *StateHub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Debug("state client unregistered")
}

func (h *StateHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues msg, dropping it when the queue is full or the hub closed.
func (h *StateHub) Publish(msg StateMessage) {
	select {
	case <-h.done:
	case h.broadcast <- msg:
	default:
		logrus.WithField("type", msg.Type).Warn("state broadcast channel full, dropping message")
	}
}

func (h *StateHub) Broadcast(c store.Change) {
	h.Publish(StateMessage{Type: "change", Slice: c.Slice})
}

func (h *StateHub) Navigate(location string) {
	h.Publish(StateMessage{Type: "navigate", Location: location})
}

// Close stops broadcasting and disconnects every client.
func (h *StateHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		defer h.mu.Unlock()
		for conn := range h.clients {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeWait))
			conn.Close()
			delete(h.clients, conn)
		}
	})
}

// HandleStateWebSocket streams state messages until the client goes away.
// Clients are not expected to send anything.
func (h *StateHub) HandleStateWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("failed to upgrade state websocket")
		return
	}
	defer conn.Close()

	h.RegisterClient(conn)
	defer h.UnregisterClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).Debug("state websocket read ended")
			}
			return
		}
	}
}
