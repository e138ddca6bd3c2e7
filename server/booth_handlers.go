package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapbooth/snapbooth/apperrors"
	"github.com/snapbooth/snapbooth/capture"
	"github.com/snapbooth/snapbooth/models"
)

type captureRequest struct {
	ImageData string `json:"image_data" binding:"required"`
	Filter    string `json:"filter" binding:"omitempty,filtername"`
}

type snapRequest struct {
	Facing string `json:"facing" binding:"omitempty,oneof=front back"`
	Filter string `json:"filter" binding:"omitempty,filtername"`
}

// handleCapture accepts a browser-captured frame, runs the quota gate and
// filter compositing, and queues it for upload. 202: the photo is queued,
// not yet in the gallery.
func (s *Server) handleCapture() gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := s.eventFromSlug(c)
		if !ok {
			return
		}
		deviceID := deviceFromContext(c)

		var req captureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAndAbort(c, "invalid capture payload", http.StatusBadRequest)
			return
		}

		pending, err := s.CaptureService.Capture(c.Request.Context(), event.ID.String(), deviceID, req.ImageData, req.Filter)
		if err != nil {
			if errors.Is(err, apperrors.ErrQuotaExceeded) {
				c.JSON(apperrors.ErrQuotaExceeded.Status, gin.H{
					"message": apperrors.ErrQuotaExceeded.Message,
					"code":    "QUOTA_EXCEEDED",
				})
				return
			}
			respondError(c, err)
			return
		}

		remaining, _ := s.QuotaService.Remaining(c.Request.Context(), event.ID.String(), deviceID)
		respondJSON(c, "capture queued", http.StatusAccepted, gin.H{
			"capture_id": pending.ID,
			"remaining":  remaining,
		})
	}
}

// handleKioskSnap captures from the locally attached camera instead of a
// browser frame.
func (s *Server) handleKioskSnap() gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := s.eventFromSlug(c)
		if !ok {
			return
		}
		deviceID := deviceFromContext(c)

		var req snapRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAndAbort(c, "invalid snap payload", http.StatusBadRequest)
			return
		}
		facing := capture.Facing(req.Facing)
		if facing == "" {
			facing = capture.FacingFront
		}

		pending, err := s.CaptureService.SnapFromDevice(c.Request.Context(), event.ID.String(), deviceID, req.Filter, facing)
		if err != nil {
			respondError(c, err)
			return
		}

		respondJSON(c, "capture queued", http.StatusAccepted, gin.H{
			"capture_id": pending.ID,
		})
	}
}

// handleQuota reports how many captures the device has left for the event.
func (s *Server) handleQuota() gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := s.eventFromSlug(c)
		if !ok {
			return
		}
		deviceID := deviceFromContext(c)

		remaining, err := s.QuotaService.Remaining(c.Request.Context(), event.ID.String(), deviceID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, "quota", http.StatusOK, gin.H{
			"remaining": remaining,
			"limit":     s.Config.QuotaLimit,
		})
	}
}

// handleQueueStatus exposes the local queue depth for the event, mostly for
// the booth UI's "uploading…" badge.
func (s *Server) handleQueueStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := s.eventFromSlug(c)
		if !ok {
			return
		}
		pending, err := s.Queue.Count(event.ID.String())
		if err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, "queue status", http.StatusOK, gin.H{
			"pending": pending,
		})
	}
}

func (s *Server) eventFromSlug(c *gin.Context) (*models.Event, bool) {
	slug := c.Param("slug")
	event, err := s.EventRepository.GetEventBySlug(slug)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return event, true
}
