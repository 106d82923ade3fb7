package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/rook-computer/neoncity/internal/canvas"
)

func TestComposeFrameLetterboxes(t *testing.T) {
	src := canvas.New(100, 100)
	src.Fill(color.RGBA{R: 200, G: 10, B: 10, A: 0xFF})

	frame := ComposeFrame(src, 400, 248, "", nil, nil)
	if frame.Bounds() != image.Rect(0, 0, 400, 248) {
		t.Fatalf("frame bounds = %v", frame.Bounds())
	}
	// Image area is 400x200; a square image is centred in it.
	if got := frame.RGBAAt(200, 100); got.R != 200 {
		t.Fatalf("centre = %v, want the source image", got)
	}
	if got := frame.RGBAAt(10, 100); got != (color.RGBA{A: 0xFF}) {
		t.Fatalf("letterbox = %v, want black", got)
	}
}

func TestComposeFrameCaptionAndQR(t *testing.T) {
	src := canvas.New(64, 64)
	qr, err := QRCode("http://localhost:8080/", 64)
	if err != nil {
		t.Fatal(err)
	}
	frame := ComposeFrame(src, 320, 240, "cyberpunk-city.png seed=42", qr, captionFace(nil))

	band := frame.SubImage(image.Rect(0, 240-captionBandPx, 320, 240)).(*image.RGBA)
	if !hasColor(band, Cyan) {
		t.Fatal("caption band has no text pixels")
	}
	size := qr.Bounds().Dx()
	spot := frame.SubImage(image.Rect(320-previewMargin-size, 192-previewMargin-size, 320-previewMargin, 192-previewMargin)).(*image.RGBA)
	if !hasColor(spot, Cyan) {
		t.Fatal("qr code missing from the bottom-right corner")
	}
}

func TestQRCodeEmptyPayload(t *testing.T) {
	if _, err := QRCode("", 100); err == nil {
		t.Fatal("empty payload accepted")
	}
}

func TestBlitScales(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 2, 2))
	frame.SetRGBA(1, 1, color.RGBA{R: 9, A: 0xFF})
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	blit(dst, frame)
	if got := dst.RGBAAt(3, 3); got.R != 9 {
		t.Fatalf("scaled pixel = %v", got)
	}
	if got := dst.RGBAAt(1, 1); got.R != 0 || got.A != 0xFF {
		t.Fatalf("top-left = %v", got)
	}
}

func TestNoopPreviewer(t *testing.T) {
	var p Previewer = NoopPreviewer{}
	if err := p.Show(canvas.New(1, 1), "x"); err != nil {
		t.Fatal(err)
	}
}

func hasColor(img *image.RGBA, want color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == want {
				return true
			}
		}
	}
	return false
}
