package services

import (
	"context"
	"testing"
	"time"

	"github.com/snapbooth/snapbooth/apperrors"
	"github.com/snapbooth/snapbooth/models"
	"github.com/snapbooth/snapbooth/queue"
)

func TestRemainingCombinesPendingAndConfirmed(t *testing.T) {
	store := queue.NewMemoryStore()
	remote := &fakeRemote{}
	remote.addPhotos("ev1", "device-1", 5)

	for i := 0; i < 3; i++ {
		_ = store.Enqueue(models.PendingCapture{
			ID:      string(rune('a' + i)),
			EventID: "ev1", DeviceID: "device-1",
		})
	}

	quota := NewQuotaService(store, remote, 35, time.Minute)
	remaining, err := quota.Remaining(context.Background(), "ev1", "device-1")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 27 {
		t.Fatalf("remaining = %d, want 35 - (3 + 5) = 27", remaining)
	}
}

func TestRemainingClampsAtZero(t *testing.T) {
	store := queue.NewMemoryStore()
	remote := &fakeRemote{}
	remote.addPhotos("ev1", "device-1", 40)

	quota := NewQuotaService(store, remote, 35, time.Minute)
	remaining, err := quota.Remaining(context.Background(), "ev1", "device-1")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("remaining = %d, want 0 (never negative)", remaining)
	}
}

func TestRemainingUsesCachedCountOnRemoteFailure(t *testing.T) {
	store := queue.NewMemoryStore()
	remote := &fakeRemote{}
	remote.addPhotos("ev1", "device-1", 10)

	quota := NewQuotaService(store, remote, 35, time.Minute)
	if _, err := quota.Remaining(context.Background(), "ev1", "device-1"); err != nil {
		t.Fatalf("warm-up remaining: %v", err)
	}

	remote.countErr = context.DeadlineExceeded
	quota.Invalidate("ev1", "device-1")
	remaining, err := quota.Remaining(context.Background(), "ev1", "device-1")
	if err != nil {
		t.Fatalf("remaining with failing remote: %v", err)
	}
	// Cache was invalidated and refresh failed: last known value is gone,
	// the count degrades to zero rather than blocking captures.
	if remaining != 35 {
		t.Fatalf("remaining = %d, want 35", remaining)
	}
}

func TestRemainingCachesRemoteCount(t *testing.T) {
	store := queue.NewMemoryStore()
	remote := &fakeRemote{}
	quota := NewQuotaService(store, remote, 35, time.Minute)

	for i := 0; i < 4; i++ {
		if _, err := quota.Remaining(context.Background(), "ev1", "device-1"); err != nil {
			t.Fatalf("remaining #%d: %v", i, err)
		}
	}
	if remote.countCalls != 1 {
		t.Fatalf("remote count calls = %d, want 1 within refresh window", remote.countCalls)
	}
}

func TestCaptureRejectedAtQuotaLeavesStoreUnchanged(t *testing.T) {
	store := queue.NewMemoryStore()
	remote := &fakeRemote{}
	remote.addPhotos("ev1", "device-1", 35)

	quota := NewQuotaService(store, remote, 35, time.Minute)
	svc := NewCaptureService(store, quota, nil, nil)

	_, err := svc.Capture(context.Background(), "ev1", "device-1", jpegBase64(t), "none")
	if err != apperrors.ErrQuotaExceeded {
		t.Fatalf("capture at quota = %v, want ErrQuotaExceeded", err)
	}

	count, _ := store.Count("ev1")
	if count != 0 {
		t.Fatalf("store size = %d after rejected capture, want 0", count)
	}
}
