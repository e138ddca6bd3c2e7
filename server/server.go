package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snapbooth/snapbooth/config"
	"github.com/snapbooth/snapbooth/db"
	"github.com/snapbooth/snapbooth/queue"
	"github.com/snapbooth/snapbooth/services"
)

type Server struct {
	Config          *config.Config
	CaptureService  services.CaptureService
	QuotaService    services.QuotaService
	GalleryService  services.GalleryService
	EventRepository db.EventRepository
	Queue           queue.Store
	Hub             *Hub
}

func (s *Server) Start() {
	router := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Give in-flight requests a moment; the uploader keeps queued captures
	// durable across the restart anyway.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
