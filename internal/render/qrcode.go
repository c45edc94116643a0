package render

import (
	"github.com/skip2/go-qrcode"
)

const (
	qrVersion  = 3
	qrMinScale = 3
	qrMaxScale = 5
)

// QRModules encodes payload as a borderless module grid, true = dark.
// Version 3 with low error correction is tried first so the symbol stays
// readable at the badge's module size; longer payloads get whatever version
// fits.
func QRModules(payload string) ([][]bool, error) {
	code, err := qrcode.NewWithForcedVersion(payload, qrVersion, qrcode.Low)
	if err != nil {
		code, err = qrcode.New(payload, qrcode.Low)
		if err != nil {
			return nil, err
		}
	}
	code.DisableBorder = true
	return code.Bitmap(), nil
}

// QRScale is the module size in pixels for a symbol of size modules drawn
// into a canvas px wide.
func QRScale(size, px int) int {
	if size <= 0 {
		return qrMinScale
	}
	scale := px / size
	if scale < qrMinScale {
		scale = qrMinScale
	}
	if scale > qrMaxScale {
		scale = qrMaxScale
	}
	return scale
}
