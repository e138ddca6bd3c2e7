package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/snapbooth/snapbooth/models"
)

// WebSocket upgrader for the gallery live stream.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type photoView struct {
	ID           string           `json:"id"`
	URL          string           `json:"url"`
	ThumbnailURL string           `json:"thumbnail_url"`
	UploadedAt   time.Time        `json:"uploaded_at"`
	Reactions    models.Reactions `json:"reactions"`
	Views        int              `json:"views"`
	Mine         bool             `json:"mine"`
}

// handleListPhotos serves one newest-first gallery page. Ownership (`mine`)
// is computed against the caller's device header so the UI knows where to
// show a delete button; it is NOT a security boundary.
func (s *Server) handleListPhotos() gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := s.eventFromSlug(c)
		if !ok {
			return
		}
		deviceID := c.GetHeader(deviceIDHeader)

		pageIndex, err := strconv.Atoi(c.DefaultQuery("page", "0"))
		if err != nil || pageIndex < 0 {
			respondAndAbort(c, "invalid page index", http.StatusBadRequest)
			return
		}

		photos, hasMore, err := s.GalleryService.ListPage(c.Request.Context(), event.ID.String(), pageIndex)
		if err != nil {
			respondError(c, err)
			return
		}

		views := make([]photoView, 0, len(photos))
		for _, p := range photos {
			thumbPath := p.ThumbnailPath
			if thumbPath == "" {
				thumbPath = p.StoragePath
			}
			views = append(views, photoView{
				ID:           p.ID,
				URL:          s.GalleryService.ResolveDisplayURL(p.StoragePath),
				ThumbnailURL: s.GalleryService.ResolveDisplayURL(thumbPath),
				UploadedAt:   p.UploadedAt,
				Reactions:    p.Reactions,
				Views:        p.Views,
				Mine:         p.DeviceID != nil && deviceID != "" && *p.DeviceID == deviceID,
			})
		}

		respondJSON(c, "photos", http.StatusOK, gin.H{
			"photos":   views,
			"page":     pageIndex,
			"has_more": hasMore,
		})
	}
}

// handleDeletePhoto removes a photo owned by the calling device.
//
// TODO: ownership is checked against a client-supplied header only. Closing
// that requires issuing devices a signed token at first visit and verifying
// it here; until then any client that crafts the request can delete any
// photo.
func (s *Server) handleDeletePhoto() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := deviceFromContext(c)
		photoID := c.Param("id")

		if err := s.GalleryService.Delete(c.Request.Context(), photoID, deviceID); err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, "photo deleted", http.StatusOK, nil)
	}
}

func (s *Server) handleReact() gin.HandlerFunc {
	return func(c *gin.Context) {
		photoID := c.Param("id")
		kind := c.Param("kind")

		if err := s.GalleryService.React(c.Request.Context(), photoID, kind); err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, "reaction recorded", http.StatusOK, nil)
	}
}

func (s *Server) handleView() gin.HandlerFunc {
	return func(c *gin.Context) {
		photoID := c.Param("id")

		if err := s.GalleryService.View(c.Request.Context(), photoID); err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, "view recorded", http.StatusOK, nil)
	}
}

// handleGalleryStream upgrades to a websocket and streams photo-added
// events for the event until the client goes away.
func (s *Server) handleGalleryStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := s.eventFromSlug(c)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		eventID := event.ID.String()
		s.Hub.Register(eventID, conn)
		defer s.Hub.Unregister(eventID, conn)

		// Reads are discarded; the stream is one-way. Returning on error
		// unregisters the client.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
