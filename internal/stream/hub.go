package stream

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/warbler-server/internal/models"
)

// Hub fans newly posted warbles out to connected websocket clients. All
// client bookkeeping happens on the Run goroutine via channels.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run processes client registration and broadcasts until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow client, drop it
					delete(h.clients, c)
					close(c.send)
				}
			}
		case <-h.done:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// Stop shuts the hub down and disconnects all clients
func (h *Hub) Stop() {
	close(h.done)
}

// streamEvent is the wire format pushed to stream clients
type streamEvent struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// Publish queues a newly posted message for broadcast. Never blocks the
// posting request.
func (h *Hub) Publish(message *models.Message) {
	data, err := json.Marshal(streamEvent{
		ID:        message.ID,
		UserID:    message.UserID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt.Unix(),
	})
	if err != nil {
		log.Printf("stream: marshal event: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Println("stream: broadcast queue full, dropping event")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the request and attaches the client to the hub
// GET /stream
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("stream: upgrade: %v", err)
		return
	}

	cl := &client{hub: h, conn: conn, send: make(chan []byte, 16)}
	select {
	case h.register <- cl:
	case <-h.done:
		// Hub already stopped
		conn.Close()
		return
	}

	go cl.writePump()
	go cl.readPump()
}
