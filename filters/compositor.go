// Package filters applies the selected booth filter to a captured frame
// before it enters the upload queue. Filters are composited into the image
// itself so the queued capture is self-contained.
package filters

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
)

// Compositor transforms a raw captured frame into the final image.
type Compositor interface {
	Name() string
	Apply(img image.Image) (image.Image, error)
}

// Names lists the filters the booth UI may select.
var Names = []string{"none", "mono", "vivid", "party"}

// ForName selects the compositor for a filter identifier. The party filter
// needs a landmark detector to place its overlay.
func ForName(name string, detector LandmarkDetector) (Compositor, error) {
	switch name {
	case "", "none":
		return noopCompositor{}, nil
	case "mono":
		return monoCompositor{}, nil
	case "vivid":
		return vividCompositor{}, nil
	case "party":
		if detector == nil {
			detector = CenterDetector{}
		}
		return &overlayCompositor{detector: detector}, nil
	default:
		return nil, fmt.Errorf("unknown filter: %s", name)
	}
}

type noopCompositor struct{}

func (noopCompositor) Name() string { return "none" }

func (noopCompositor) Apply(img image.Image) (image.Image, error) {
	return img, nil
}

type monoCompositor struct{}

func (monoCompositor) Name() string { return "mono" }

func (monoCompositor) Apply(img image.Image) (image.Image, error) {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 12)
	return out, nil
}

type vividCompositor struct{}

func (vividCompositor) Name() string { return "vivid" }

func (vividCompositor) Apply(img image.Image) (image.Image, error) {
	out := imaging.AdjustSaturation(img, 35)
	out = imaging.AdjustContrast(out, 8)
	out = imaging.AdjustGamma(out, 1.05)
	return out, nil
}

// DecodeBase64Image decodes a base64-encoded image, tolerating an optional
// data-URL prefix the way browsers produce them.
func DecodeBase64Image(data string) (image.Image, error) {
	raw, err := DecodeBase64Payload(data)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// DecodeBase64Payload strips any data-URL prefix and returns the raw bytes.
func DecodeBase64Payload(data string) ([]byte, error) {
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return raw, nil
}

// EncodeJPEGBase64 encodes the image as a base64 JPEG ready for queuing.
func EncodeJPEGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
