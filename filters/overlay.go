package filters

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Landmark is a point on a detected face, in frame pixel coordinates.
type Landmark struct {
	X int
	Y int
}

// Face holds the landmarks the party overlay needs.
type Face struct {
	LeftEye  Landmark
	RightEye Landmark
}

// LandmarkDetector is the external face-landmark capability. Given a frame it
// returns the faces it found; an empty slice means no overlay is drawn.
type LandmarkDetector interface {
	DetectFaces(img image.Image) ([]Face, error)
}

// CenterDetector is the fallback detector used when no landmark model is
// wired in. It assumes a single face centered in the frame, which is how
// booth selfies are framed in practice.
type CenterDetector struct{}

func (CenterDetector) DetectFaces(img image.Image) ([]Face, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return []Face{{
		LeftEye:  Landmark{X: b.Min.X + w/2 - w/8, Y: b.Min.Y + h*2/5},
		RightEye: Landmark{X: b.Min.X + w/2 + w/8, Y: b.Min.Y + h*2/5},
	}}, nil
}

// overlayCompositor draws party glasses over every detected face. Detection
// failures degrade to the unmodified frame; a missing overlay is better than
// a lost capture.
type overlayCompositor struct {
	detector LandmarkDetector
}

func (c *overlayCompositor) Name() string { return "party" }

func (c *overlayCompositor) Apply(img image.Image) (image.Image, error) {
	faces, err := c.detector.DetectFaces(img)
	if err != nil || len(faces) == 0 {
		return img, nil
	}

	out := imaging.Clone(img)
	for _, face := range faces {
		drawGlasses(out, face)
	}
	return out, nil
}

func drawGlasses(dst *image.NRGBA, face Face) {
	eyeSpan := face.RightEye.X - face.LeftEye.X
	if eyeSpan <= 0 {
		return
	}
	radius := eyeSpan / 4
	if radius < 2 {
		radius = 2
	}

	tint := color.NRGBA{R: 20, G: 20, B: 30, A: 230}
	fillCircle(dst, face.LeftEye.X, face.LeftEye.Y, radius, tint)
	fillCircle(dst, face.RightEye.X, face.RightEye.Y, radius, tint)

	// Bridge between the lenses.
	bar := image.Rect(face.LeftEye.X, face.LeftEye.Y-radius/4,
		face.RightEye.X, face.LeftEye.Y+radius/4)
	draw.Draw(dst, bar.Intersect(dst.Bounds()), &image.Uniform{C: tint}, image.Point{}, draw.Over)
}

func fillCircle(dst *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	bounds := dst.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				dst.SetNRGBA(x, y, c)
			}
		}
	}
}
