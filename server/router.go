package server

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/snapbooth/snapbooth/filters"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("filtername", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		for _, known := range filters.Names {
			if name == known {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}

func (s *Server) setupRouter() *gin.Engine {
	registerValidations()

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", deviceIDHeader, "X-Admin-Password"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	apirouter := router.Group("/api/v1")
	apirouter.GET("/healthz", s.handleHealth())

	// Gallery reads are open to anyone holding the event link.
	apirouter.GET("/events/:slug/photos", s.handleListPhotos())
	apirouter.GET("/events/:slug/stream", s.handleGalleryStream())
	apirouter.POST("/photos/:id/reactions/:kind", s.handleReact())
	apirouter.POST("/photos/:id/views", s.handleView())

	// Booth endpoints need a device identity.
	device := apirouter.Group("/")
	device.Use(s.RequireDevice())
	device.POST("/events/:slug/captures", captureRateLimiter(), s.handleCapture())
	device.POST("/events/:slug/snap", s.handleKioskSnap())
	device.GET("/events/:slug/quota", s.handleQuota())
	device.GET("/events/:slug/queue", s.handleQueueStatus())
	device.DELETE("/photos/:id", s.handleDeletePhoto())

	admin := apirouter.Group("/admin")
	admin.Use(s.AdminAuthorize())
	admin.POST("/events", s.handleCreateEvent())
	admin.GET("/events/:slug/export", s.handleExportEvent())
}
