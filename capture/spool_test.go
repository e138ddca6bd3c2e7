package capture

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func writeFrame(t *testing.T, dir, name string, shade uint8) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
}

func TestAcquireMissingDirIsPermissionDenied(t *testing.T) {
	d := NewSpoolDevice(filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := d.Acquire(FacingFront); err != ErrPermissionDenied {
		t.Fatalf("acquire = %v, want ErrPermissionDenied", err)
	}
}

func TestGrabTakesNewestAndConsumes(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "frame-001.jpg", 50)
	writeFrame(t, dir, "frame-002.jpg", 200)

	d := NewSpoolDevice(dir)
	stream, err := d.Acquire(FacingFront)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer stream.Close()

	img, err := stream.GrabFrame()
	if err != nil {
		t.Fatalf("grab: %v", err)
	}
	r, _, _, _ := img.At(1, 1).RGBA()
	// JPEG is lossy; the bright frame stays well above the dark one.
	if r>>8 < 150 {
		t.Fatalf("grabbed the older frame, pixel=%d", r>>8)
	}

	if _, err := os.Stat(filepath.Join(dir, "frame-002.jpg")); !os.IsNotExist(err) {
		t.Fatal("grabbed frame was not consumed")
	}
	if _, err := os.Stat(filepath.Join(dir, "frame-001.jpg")); err != nil {
		t.Fatalf("older frame should remain: %v", err)
	}
}

func TestGrabEmptySpoolIsNoFrame(t *testing.T) {
	d := NewSpoolDevice(t.TempDir())
	stream, err := d.Acquire(FacingFront)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer stream.Close()

	if _, err := stream.GrabFrame(); err != ErrNoFrame {
		t.Fatalf("grab on empty spool = %v, want ErrNoFrame", err)
	}
}

func TestGrabSkipsNonImageFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	writeFrame(t, dir, "aaa.jpg", 100)

	d := NewSpoolDevice(dir)
	stream, _ := d.Acquire(FacingFront)
	defer stream.Close()

	if _, err := stream.GrabFrame(); err != nil {
		t.Fatalf("grab: %v", err)
	}
}

func TestGrabAfterCloseFails(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "frame.jpg", 100)

	d := NewSpoolDevice(dir)
	stream, _ := d.Acquire(FacingFront)
	if err := stream.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := stream.GrabFrame(); err != ErrPermissionDenied {
		t.Fatalf("grab after close = %v, want ErrPermissionDenied", err)
	}
}

type recordingStream struct {
	closed bool
}

func (s *recordingStream) GrabFrame() (image.Image, error) { return nil, ErrNoFrame }
func (s *recordingStream) Close() error                    { s.closed = true; return nil }

type recordingDevice struct {
	stream *recordingStream
}

func (d *recordingDevice) Acquire(facing Facing) (Stream, error) {
	return d.stream, nil
}

func TestWithStreamReleasesOnError(t *testing.T) {
	dev := &recordingDevice{stream: &recordingStream{}}

	err := WithStream(dev, FacingFront, func(s Stream) error {
		_, err := s.GrabFrame()
		return err
	})
	if err != ErrNoFrame {
		t.Fatalf("WithStream = %v, want ErrNoFrame", err)
	}
	if !dev.stream.closed {
		t.Fatal("stream not released on the error path")
	}
}
