package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/snapbooth/snapbooth/capture"
	"github.com/snapbooth/snapbooth/config"
	"github.com/snapbooth/snapbooth/db"
	"github.com/snapbooth/snapbooth/filters"
	"github.com/snapbooth/snapbooth/models"
	"github.com/snapbooth/snapbooth/queue"
	"github.com/snapbooth/snapbooth/server"
	"github.com/snapbooth/snapbooth/services"
	"github.com/snapbooth/snapbooth/uploader"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	objectStore, err := db.NewObjectStore(conf)
	if err != nil {
		log.Fatalf("error creating object store: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(conf.QueuePath), 0o755); err != nil {
		log.Fatalf("error creating queue directory: %v", err)
	}
	captureQueue, err := queue.NewSQLiteStore(conf.QueuePath)
	if err != nil {
		log.Fatalf("error opening capture queue: %v", err)
	}
	defer captureQueue.Close()

	photoRepo := db.NewPhotoRepo(gormDB)
	eventRepo := db.NewEventRepo(gormDB)

	photoService := services.NewPhotoService(objectStore, photoRepo, conf)
	quotaService := services.NewQuotaService(captureQueue, photoService, conf.QuotaLimit, conf.QuotaRefreshInterval)
	captureService := services.NewCaptureService(captureQueue, quotaService,
		filters.CenterDetector{}, capture.NewSpoolDevice(conf.SpoolDir))
	galleryService := services.NewGalleryService(photoService, quotaService)

	hub := server.NewHub()

	up := uploader.New(captureQueue, photoService, conf.UploadTimeout, logger)
	up.OnConfirmed(func(photo models.Photo) {
		if photo.DeviceID != nil {
			quotaService.NoteConfirmed(photo.EventID, *photo.DeviceID)
		}
		hub.BroadcastPhoto(photo, galleryService.ResolveDisplayURL(photo.StoragePath))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go up.Run(ctx, conf.UploadInterval)

	s := &server.Server{
		Config:          conf,
		CaptureService:  captureService,
		QuotaService:    quotaService,
		GalleryService:  galleryService,
		EventRepository: eventRepo,
		Queue:           captureQueue,
		Hub:             hub,
	}
	s.Start()
}
