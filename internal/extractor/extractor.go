// Package extractor defines the embedding extraction capability, decodes
// inbound still images into RGB frames and bounds concurrent extraction work.
package extractor

import (
	"context"
	"errors"

	"faceauth/internal/biometric"
)

var (
	// ErrInvalidImage is returned when a payload cannot be decoded into a frame.
	ErrInvalidImage = errors.New("invalid image payload")
	// ErrPoolBusy is returned when the extraction pool cannot admit more work.
	ErrPoolBusy = errors.New("extraction pool saturated")
)

// Frame is a decoded image in packed RGB order, three bytes per pixel, row major.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
	// Format is the source encoding reported by the image decoder, e.g. "jpeg".
	Format string
}

// Extractor turns a frame into zero or more face embeddings, one per
// detected face. Finding no face is not an error.
type Extractor interface {
	Extract(ctx context.Context, frame *Frame) ([]biometric.Embedding, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, frame *Frame) ([]biometric.Embedding, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, frame *Frame) ([]biometric.Embedding, error) {
	return f(ctx, frame)
}

// FirstEmbedding applies the single-face convention: when several faces are
// detected the first one is used and the rest ignored.
func FirstEmbedding(embeddings []biometric.Embedding) (biometric.Embedding, bool) {
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, false
	}
	return embeddings[0], true
}
