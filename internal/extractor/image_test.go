package extractor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeImagePNG(t *testing.T) {
	payload := encodePNG(t, 4, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	frame, err := DecodeImage(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame.Width != 4 || frame.Height != 3 {
		t.Fatalf("unexpected size %dx%d", frame.Width, frame.Height)
	}
	if len(frame.Pix) != 4*3*3 {
		t.Fatalf("expected packed rgb buffer, got %d bytes", len(frame.Pix))
	}
	if frame.Pix[0] != 10 || frame.Pix[1] != 20 || frame.Pix[2] != 30 {
		t.Fatalf("expected RGB order, got % x", frame.Pix[:3])
	}
}

func TestDecodeImageDataURLAndJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	frame, err := DecodeImage(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame.Width != 8 || frame.Height != 8 {
		t.Fatalf("unexpected size %dx%d", frame.Width, frame.Height)
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: "   "},
		{name: "not base64", payload: "@@@@"},
		{name: "not an image", payload: base64.StdEncoding.EncodeToString([]byte("hello world"))},
		{name: "malformed data url", payload: "data:image/png,abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeImage(tt.payload)
			if !errors.Is(err, ErrInvalidImage) {
				t.Fatalf("expected ErrInvalidImage, got %v", err)
			}
		})
	}
}

func TestFirstEmbedding(t *testing.T) {
	if _, ok := FirstEmbedding(nil); ok {
		t.Fatal("expected no face for empty result")
	}
}
