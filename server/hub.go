package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/snapbooth/snapbooth/models"
)

// Hub pushes newly confirmed photos to gallery viewers so the wall updates
// without polling.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*websocket.Conn]bool // eventID -> connections
}

// PhotoEvent is the message broadcast when the uploader confirms a capture.
type PhotoEvent struct {
	Type      string    `json:"type"`
	EventID   string    `json:"eventId"`
	PhotoID   string    `json:"photoId"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

const msgPhotoAdded = "photo.added"

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Register(eventID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[eventID] == nil {
		h.clients[eventID] = make(map[*websocket.Conn]bool)
	}
	h.clients[eventID][conn] = true
}

func (h *Hub) Unregister(eventID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[eventID], conn)
	conn.Close()
}

// BroadcastPhoto fans the confirmed photo out to every viewer of its event.
// Dead connections are dropped on write failure.
func (h *Hub) BroadcastPhoto(photo models.Photo, url string) {
	msg := PhotoEvent{
		Type:      msgPhotoAdded,
		EventID:   photo.EventID,
		PhotoID:   photo.ID,
		URL:       url,
		Timestamp: time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[photo.EventID] {
		if err := conn.WriteJSON(msg); err != nil {
			slog.Warn("dropping gallery stream client", "event_id", photo.EventID, "err", err)
			delete(h.clients[photo.EventID], conn)
			conn.Close()
		}
	}
}
