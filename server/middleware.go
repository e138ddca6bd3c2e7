package server

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const deviceIDHeader = "X-Device-ID"

// RequireDevice pulls the per-browser-install device ID out of the request.
// Guests are anonymous; the device ID is the only identity the booth knows.
func (s *Server) RequireDevice() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(deviceIDHeader)
		if deviceID == "" || len(deviceID) > 64 {
			respondAndAbort(c, "missing or invalid device id", http.StatusBadRequest)
			return
		}
		c.Set("deviceID", deviceID)
		c.Next()
	}
}

// AdminAuthorize gates the admin surface behind the configured password.
// There are no admin accounts, just one shared secret checked against a
// bcrypt hash.
func (s *Server) AdminAuthorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		password := c.GetHeader("X-Admin-Password")
		if s.Config.AdminPasswordHash == "" || password == "" {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(s.Config.AdminPasswordHash), []byte(password)); err != nil {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// captureRateLimiter throttles capture posts per device so a stuck client
// cannot spin the queue full inside one quota refresh window.
func captureRateLimiter() gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: 3,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			respondAndAbort(c, "too many captures, slow down", http.StatusTooManyRequests)
		},
		KeyFunc: func(c *gin.Context) string {
			if deviceID := c.GetHeader(deviceIDHeader); deviceID != "" {
				return deviceID
			}
			return c.ClientIP()
		},
	})
}

func deviceFromContext(c *gin.Context) string {
	return c.GetString("deviceID")
}
