package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// QRCode renders payload as a cyan-on-black QR code, sizePx wide.
func QRCode(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, errors.New("empty qr payload")
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	code.ForegroundColor = Cyan
	code.BackgroundColor = color.RGBA{A: 0xFF}
	return code.Image(sizePx), nil
}
