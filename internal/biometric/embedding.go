// Package biometric holds face embeddings, their persisted encoding and the
// distance based match decision.
package biometric

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Dimensions is the number of components in every embedding.
const Dimensions = 128

// BlobSize is the encoded size of one embedding.
const BlobSize = Dimensions * 8

var (
	ErrDimension = errors.New("embedding has wrong dimension")
	ErrBlobSize  = errors.New("embedding blob has wrong size")
)

// Embedding is a fixed-length face descriptor produced by the extractor.
type Embedding []float64

// Validate reports whether the embedding has the expected shape and finite components.
func (e Embedding) Validate() error {
	if len(e) != Dimensions {
		return fmt.Errorf("%w: got %d, want %d", ErrDimension, len(e), Dimensions)
	}
	for i, v := range e {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("embedding component %d is not finite", i)
		}
	}
	return nil
}

// MarshalBinary encodes the embedding as little-endian float64 values.
func (e Embedding) MarshalBinary() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, BlobSize)
	for i, v := range e {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf, nil
}

// UnmarshalBinary decodes a blob written by MarshalBinary.
func (e *Embedding) UnmarshalBinary(data []byte) error {
	if len(data) != BlobSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrBlobSize, len(data), BlobSize)
	}
	out := make(Embedding, Dimensions)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	*e = out
	return nil
}

// Decode is a convenience wrapper around UnmarshalBinary. An empty blob
// decodes to a nil embedding, which marks an unpopulated slot.
func Decode(data []byte) (Embedding, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var e Embedding
	if err := e.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return e, nil
}

// Distance returns the Euclidean distance between two embeddings.
func Distance(a, b Embedding) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimension, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, errors.New("empty embedding")
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
