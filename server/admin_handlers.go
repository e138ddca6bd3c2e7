package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapbooth/snapbooth/models"
)

type createEventRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required,min=3,max=64,slug"`
}

func (s *Server) handleCreateEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAndAbort(c, "invalid event payload", http.StatusBadRequest)
			return
		}

		event := models.Event{Name: req.Name, Slug: req.Slug}
		if err := s.EventRepository.CreateEvent(&event); err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, "event created", http.StatusCreated, event)
	}
}

// handleExportEvent lists every confirmed photo reference for the event so
// an external bundler can fetch them.
func (s *Server) handleExportEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := s.eventFromSlug(c)
		if !ok {
			return
		}

		items, err := s.GalleryService.Export(c.Request.Context(), event.ID.String())
		if err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, "export listing", http.StatusOK, gin.H{
			"event": event.Slug,
			"count": len(items),
			"items": items,
		})
	}
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondJSON(c, "ok", http.StatusOK, nil)
	}
}
