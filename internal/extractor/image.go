package extractor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// maxImagePixels caps decoded frame size (roughly 24 megapixels).
const maxImagePixels = 24_000_000

// DecodeImage decodes an inline base64 or data URL still image into an RGB frame.
func DecodeImage(payload string) (*Frame, error) {
	data, err := DecodePayload(payload)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxImagePixels {
		return nil, fmt.Errorf("%w: unsupported dimensions %dx%d", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	frame := toRGB(img)
	frame.Format = format
	return frame, nil
}

// DecodePayload strips an optional data URL prefix and returns the raw image bytes.
func DecodePayload(payload string) ([]byte, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	b64 := trimmed
	if strings.HasPrefix(trimmed, "data:") {
		parts := strings.SplitN(strings.TrimPrefix(trimmed, "data:"), ";base64,", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: malformed data url", ErrInvalidImage)
		}
		b64 = strings.TrimSpace(parts[1])
	}
	if b64 == "" {
		return nil, fmt.Errorf("%w: empty base64 payload", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		// browsers sometimes strip padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(b64, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: decode base64: %v", ErrInvalidImage, err)
		}
	}
	return data, nil
}

func toRGB(img image.Image) *Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, 0, w*h*3)

	if rgba, ok := img.(*image.RGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := rgba.Pix[rgba.PixOffset(b.Min.X, y):]
			for x := 0; x < w; x++ {
				pix = append(pix, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
		return &Frame{Width: w, Height: h, Pix: pix}
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			pix = append(pix, byte(r>>8), byte(g>>8), byte(bl>>8))
		}
	}
	return &Frame{Width: w, Height: h, Pix: pix}
}
