package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/rook-computer/neoncity/internal/render/layout"
)

const (
	captionBandPx = 48
	captionSizePt = 20
	previewQRPx   = 160
	previewMargin = 16
)

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Previewer shows a finished image somewhere outside the output files.
type Previewer interface {
	Start(ctx context.Context) error
	Stop() error
	Show(img image.Image, caption string) error
}

// NoopPreviewer discards everything.
type NoopPreviewer struct{}

func (NoopPreviewer) Start(ctx context.Context) error            { return nil }
func (NoopPreviewer) Stop() error                                { return nil }
func (NoopPreviewer) Show(img image.Image, caption string) error { return nil }

// FBPreview blits images to the Linux framebuffer, letterboxed, with a
// caption band and an optional QR code in the bottom-right corner.
type FBPreview struct {
	// Device defaults to /dev/fb0.
	Device string
	// QRPayload, when set, is encoded as a QR code on every frame. The CLI
	// uses it for the gallery URL.
	QRPayload string
	Logger    logger

	fbDev *fb.Device
	face  font.Face
}

func NewFBPreview() *FBPreview { return &FBPreview{Device: "/dev/fb0"} }

func (p *FBPreview) Start(ctx context.Context) error {
	dev, err := fb.Open(p.Device)
	if err != nil {
		return err
	}
	p.fbDev = dev
	if p.Logger != nil {
		bounds := dev.Bounds()
		p.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}
	p.face = captionFace(p.Logger)
	return nil
}

func (p *FBPreview) Stop() error {
	if p.fbDev != nil {
		p.fbDev.Close()
		p.fbDev = nil
	}
	return nil
}

// Show draws img with caption onto the framebuffer.
func (p *FBPreview) Show(img image.Image, caption string) error {
	if p.fbDev == nil {
		return nil
	}
	var qr image.Image
	if p.QRPayload != "" {
		code, err := QRCode(p.QRPayload, previewQRPx)
		if err != nil {
			if p.Logger != nil {
				p.Logger.Errorf("fb", "qr code for %q failed: %v", p.QRPayload, err)
			}
		} else {
			qr = code
		}
	}
	bounds := p.fbDev.Bounds()
	frame := ComposeFrame(img, bounds.Dx(), bounds.Dy(), caption, qr, p.face)
	blit(p.fbDev, frame)
	if p.Logger != nil {
		p.Logger.Infof("fb", "preview shown: %s", caption)
	}
	return nil
}

// ComposeFrame lays out one preview frame: img scaled to fit above a caption
// band, and qr (if any) anchored bottom-right over the image area.
func ComposeFrame(img image.Image, width, height int, caption string, qr image.Image, face font.Face) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(frame, frame.Bounds(), &image.Uniform{C: color.RGBA{A: 0xFF}}, image.Point{}, draw.Src)

	imageArea, band := layout.SplitHorizontal(frame.Bounds(), height-captionBandPx)
	dst := layout.FitRect(imageArea, img.Bounds())
	if !dst.Empty() {
		xdraw.NearestNeighbor.Scale(frame, dst, img, img.Bounds(), xdraw.Src, nil)
	}

	if qr != nil {
		size := qr.Bounds().Dx()
		spot := layout.AnchorBottomRight(layout.Inset(imageArea, previewMargin), size, size)
		xdraw.NearestNeighbor.Scale(frame, spot, qr, qr.Bounds(), xdraw.Src, nil)
	}

	if caption != "" && !band.Empty() {
		if face == nil {
			face = basicfont.Face7x13
		}
		drawCaption(frame, band, caption, face)
	}
	return frame
}

func drawCaption(dst *image.RGBA, band image.Rectangle, text string, face font.Face) {
	drawer := &font.Drawer{Dst: dst, Src: image.NewUniform(Cyan), Face: face}
	textWidth := drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	x := band.Min.X + (band.Dx()-textWidth)/2
	baseline := band.Min.Y + (band.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Dot = freetype.Pt(x, baseline)
	drawer.DrawString(text)
}

// captionFace parses the bundled Go font, falling back to the fixed bitmap
// face when parsing fails.
func captionFace(l logger) font.Face {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		if l != nil {
			l.Errorf("fb", "truetype parse failed, using basicfont: %v", err)
		}
		return basicfont.Face7x13
	}
	return truetype.NewFace(tt, &truetype.Options{Size: captionSizePt, DPI: 72, Hinting: font.HintingFull})
}

// blit copies frame to dst pixel by pixel, nearest-neighbour scaled to the
// destination bounds.
func blit(dst draw.Image, frame *image.RGBA) {
	bounds := dst.Bounds()
	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	for y := 0; y < bounds.Dy(); y++ {
		sy := (y * fh) / bounds.Dy()
		for x := 0; x < bounds.Dx(); x++ {
			sx := (x * fw) / bounds.Dx()
			pixel := frame.RGBAAt(sx, sy)
			dst.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
