// Package web provides the live case feed over WebSocket.
package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	json "github.com/goccy/go-json"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPingPeriod = 30 * time.Second
	feedSendBuffer = 16
)

// FeedEvent is the frame sent to feed subscribers.
type FeedEvent struct {
	Kind string               `json:"kind"` // "created" | "amended"
	Case moderation.CaseEvent `json:"case"`
}

// CaseFeed broadcasts ledger events to connected WebSocket clients.
// It implements moderation.EventSink; a slow client gets dropped
// rather than blocking the broadcast.
type CaseFeed struct {
	mu       sync.RWMutex
	clients  map[*feedClient]struct{}
	upgrader websocket.Upgrader
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

var feed *CaseFeed

// InitFeed creates the global feed and mounts its route on the server.
func InitFeed(s *Server) *CaseFeed {
	feed = NewCaseFeed()
	s.GET("/ws/cases", feed.handleWS)
	return feed
}

// Feed returns the global case feed
func Feed() *CaseFeed {
	return feed
}

// NewCaseFeed creates an unmounted feed.
func NewCaseFeed() *CaseFeed {
	return &CaseFeed{
		clients: make(map[*feedClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The host allowlist middleware already filtered the request.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// CaseCreated implements moderation.EventSink
func (f *CaseFeed) CaseCreated(evt moderation.CaseEvent) {
	f.broadcast(FeedEvent{Kind: "created", Case: evt})
}

// CaseAmended implements moderation.EventSink
func (f *CaseFeed) CaseAmended(evt moderation.CaseEvent) {
	f.broadcast(FeedEvent{Kind: "amended", Case: evt})
}

// ClientCount returns the number of connected subscribers
func (f *CaseFeed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

func (f *CaseFeed) broadcast(evt FeedEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		logger.Error(fmt.Sprintf("Error serializando evento del feed: %v", err), "CaseFeed")
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for client := range f.clients {
		select {
		case client.send <- data:
		default:
			// Buffer full: the writer will notice the closed channel
			// and tear the connection down.
			go f.remove(client)
		}
	}
}

func (f *CaseFeed) remove(client *feedClient) {
	f.mu.Lock()
	_, ok := f.clients[client]
	if ok {
		delete(f.clients, client)
		close(client.send)
	}
	f.mu.Unlock()
	if ok {
		client.conn.Close()
	}
}

// handleWS upgrades the request and pumps events until the client
// disconnects.
func (f *CaseFeed) handleWS(c *gin.Context) {
	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(fmt.Sprintf("Error actualizando a WebSocket: %v", err), "CaseFeed")
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, feedSendBuffer)}
	f.mu.Lock()
	f.clients[client] = struct{}{}
	f.mu.Unlock()

	logger.Info("Nuevo suscriptor del feed de casos conectado", "CaseFeed")

	go f.writePump(client)
	go f.readPump(client)
}

func (f *CaseFeed) writePump(client *feedClient) {
	ticker := time.NewTicker(feedPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				f.remove(client)
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				f.remove(client)
				return
			}
		}
	}
}

// readPump discards client frames; the feed is one-way. Reading is
// still required to process control frames and notice disconnects.
func (f *CaseFeed) readPump(client *feedClient) {
	defer f.remove(client)
	client.conn.SetReadLimit(512)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
