package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/snapbooth/snapbooth/apperrors"
	"github.com/snapbooth/snapbooth/capture"
	"github.com/snapbooth/snapbooth/filters"
	"github.com/snapbooth/snapbooth/models"
	"github.com/snapbooth/snapbooth/queue"
)

// CaptureService takes a raw frame through quota check, filter compositing
// and into the local capture queue. Nothing here talks to the network except
// the quota's cached remote count.
type CaptureService interface {
	Capture(ctx context.Context, eventID, deviceID, imageData, filterName string) (*models.PendingCapture, error)
	SnapFromDevice(ctx context.Context, eventID, deviceID, filterName string, facing capture.Facing) (*models.PendingCapture, error)
}

type captureService struct {
	store    queue.Store
	quota    QuotaService
	detector filters.LandmarkDetector
	device   capture.Device
}

func NewCaptureService(store queue.Store, quota QuotaService, detector filters.LandmarkDetector, device capture.Device) CaptureService {
	return &captureService{
		store:    store,
		quota:    quota,
		detector: detector,
		device:   device,
	}
}

func (s *captureService) Capture(ctx context.Context, eventID, deviceID, imageData, filterName string) (*models.PendingCapture, error) {
	remaining, err := s.quota.Remaining(ctx, eventID, deviceID)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, apperrors.ErrQuotaExceeded
	}

	compositor, err := filters.ForName(filterName, s.detector)
	if err != nil {
		return nil, apperrors.New(err.Error(), 400)
	}

	img, err := filters.DecodeBase64Image(imageData)
	if err != nil {
		return nil, apperrors.New("invalid image data", 400)
	}

	composited, err := compositor.Apply(img)
	if err != nil {
		return nil, fmt.Errorf("failed to apply filter %s: %w", compositor.Name(), err)
	}

	encoded, err := filters.EncodeJPEGBase64(composited)
	if err != nil {
		return nil, err
	}

	pending := models.PendingCapture{
		ID:         NewCaptureID(),
		ImageData:  encoded,
		EventID:    eventID,
		DeviceID:   deviceID,
		CapturedAt: time.Now().UnixMilli(),
	}

	if err := s.store.Enqueue(pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

// SnapFromDevice grabs a frame from the kiosk camera and runs it through the
// same pipeline. The stream is released on every path.
func (s *captureService) SnapFromDevice(ctx context.Context, eventID, deviceID, filterName string, facing capture.Facing) (*models.PendingCapture, error) {
	if s.device == nil {
		return nil, apperrors.ErrPermissionDenied
	}

	var pending *models.PendingCapture
	err := capture.WithStream(s.device, facing, func(stream capture.Stream) error {
		img, err := stream.GrabFrame()
		if err != nil {
			return err
		}
		encoded, err := filters.EncodeJPEGBase64(img)
		if err != nil {
			return err
		}
		pending, err = s.Capture(ctx, eventID, deviceID, encoded, filterName)
		return err
	})
	if err == capture.ErrPermissionDenied {
		return nil, apperrors.ErrPermissionDenied
	}
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// NewCaptureID builds a queue-unique capture identifier: millisecond
// timestamp for ordering plus a random suffix for uniqueness. It doubles as
// the server-side upload key.
func NewCaptureID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
