package filters

import (
	"image"
	"image/color"
	"testing"
)

func testFrame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(40 + x%160), G: 180, B: uint8(60 + y%120), A: 255})
		}
	}
	return img
}

func TestForNameKnownFilters(t *testing.T) {
	for _, name := range Names {
		c, err := ForName(name, nil)
		if err != nil {
			t.Fatalf("ForName(%s): %v", name, err)
		}
		if c.Name() != name {
			t.Fatalf("compositor for %s reports name %s", name, c.Name())
		}
	}

	// Empty string is the none filter.
	c, err := ForName("", nil)
	if err != nil {
		t.Fatalf("ForName(\"\"): %v", err)
	}
	if c.Name() != "none" {
		t.Fatalf("empty filter resolved to %s", c.Name())
	}
}

func TestForNameRejectsUnknown(t *testing.T) {
	if _, err := ForName("sparkle", nil); err == nil {
		t.Fatal("expected error for unknown filter name")
	}
}

func TestNoopPassesFrameThrough(t *testing.T) {
	src := testFrame(32, 24)
	c, _ := ForName("none", nil)
	out, err := c.Apply(src)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out != src {
		t.Fatal("none filter should return the frame unmodified")
	}
}

func TestMonoProducesGrayscale(t *testing.T) {
	c, _ := ForName("mono", nil)
	out, err := c.Apply(testFrame(32, 24))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 24 {
		t.Fatalf("mono changed dimensions: %v", out.Bounds())
	}

	r, g, b, _ := out.At(10, 10).RGBA()
	if r != g || g != b {
		t.Fatalf("mono pixel not gray: r=%d g=%d b=%d", r, g, b)
	}
}

func TestVividKeepsDimensions(t *testing.T) {
	c, _ := ForName("vivid", nil)
	out, err := c.Apply(testFrame(32, 24))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 24 {
		t.Fatalf("vivid changed dimensions: %v", out.Bounds())
	}
}

type fixedDetector struct {
	faces []Face
	err   error
}

func (d fixedDetector) DetectFaces(img image.Image) ([]Face, error) {
	return d.faces, d.err
}

func TestPartyDrawsOverEyes(t *testing.T) {
	detector := fixedDetector{faces: []Face{{
		LeftEye:  Landmark{X: 20, Y: 30},
		RightEye: Landmark{X: 60, Y: 30},
	}}}
	c, err := ForName("party", detector)
	if err != nil {
		t.Fatalf("ForName(party): %v", err)
	}

	src := testFrame(80, 60)
	out, err := c.Apply(src)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	before := src.At(20, 30)
	after := out.At(20, 30)
	if before == after {
		t.Fatal("party overlay left the eye pixel untouched")
	}
	r, g, b, _ := out.At(20, 30).RGBA()
	if r > 0x3000 || g > 0x3000 || b > 0x4000 {
		t.Fatalf("eye pixel not tinted dark: r=%d g=%d b=%d", r, g, b)
	}

	// Corner stays as composed.
	cr, cg, cb, _ := out.At(0, 0).RGBA()
	sr, sg, sb, _ := src.At(0, 0).RGBA()
	if cr != sr || cg != sg || cb != sb {
		t.Fatal("overlay modified pixels far from the face")
	}
}

func TestPartyDegradesWhenDetectionFails(t *testing.T) {
	c, err := ForName("party", fixedDetector{err: image.ErrFormat})
	if err != nil {
		t.Fatalf("ForName(party): %v", err)
	}

	src := testFrame(80, 60)
	out, err := c.Apply(src)
	if err != nil {
		t.Fatalf("detection failure must not fail the capture: %v", err)
	}
	if out != src {
		t.Fatal("failed detection should return the unmodified frame")
	}
}

func TestPartyFallsBackToCenterDetector(t *testing.T) {
	c, err := ForName("party", nil)
	if err != nil {
		t.Fatalf("ForName(party, nil): %v", err)
	}
	out, err := c.Apply(testFrame(100, 100))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	// CenterDetector puts the eyes at x = 50±12, y = 40.
	r, g, b, _ := out.At(38, 40).RGBA()
	if r > 0x3000 || g > 0x3000 || b > 0x4000 {
		t.Fatalf("left eye pixel not tinted: r=%d g=%d b=%d", r, g, b)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	src := testFrame(16, 16)
	encoded, err := EncodeJPEGBase64(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeBase64Image(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Dx() != 16 || decoded.Bounds().Dy() != 16 {
		t.Fatalf("round trip changed dimensions: %v", decoded.Bounds())
	}
}

func TestDecodeToleratesDataURLPrefix(t *testing.T) {
	encoded, err := EncodeJPEGBase64(testFrame(8, 8))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := DecodeBase64Image("data:image/jpeg;base64," + encoded); err != nil {
		t.Fatalf("decode with data-URL prefix: %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeBase64Image("!!not base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := DecodeBase64Image("aGVsbG8gd29ybGQ="); err == nil {
		t.Fatal("expected error for non-image payload")
	}
}
