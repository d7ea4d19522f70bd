package biometric

import (
	"errors"
	"math"
	"testing"
)

func makeEmbedding(seed float64) Embedding {
	e := make(Embedding, Dimensions)
	// component 0 stays zero so tests can place faces at exact distances
	for i := 1; i < len(e); i++ {
		e[i] = math.Sin(seed+float64(i)) * 0.1
	}
	return e
}

func TestEmbeddingBlobRoundTrip(t *testing.T) {
	original := makeEmbedding(1.5)
	original[3] = -0.0
	original[7] = math.SmallestNonzeroFloat64

	blob, err := original.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	if len(blob) != BlobSize {
		t.Fatalf("expected %d bytes, got %d", BlobSize, len(blob))
	}

	decoded, err := Decode(blob)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	for i := range original {
		if math.Float64bits(original[i]) != math.Float64bits(decoded[i]) {
			t.Fatalf("component %d differs: %v vs %v", i, original[i], decoded[i])
		}
	}
}

func TestEmbeddingBlobLittleEndian(t *testing.T) {
	e := make(Embedding, Dimensions)
	e[0] = 1.0
	blob, err := e.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1.0 == 0x3FF0000000000000
	if blob[7] != 0x3F || blob[6] != 0xF0 || blob[0] != 0 {
		t.Fatalf("unexpected byte order: % x", blob[:8])
	}
}

func TestEmbeddingValidation(t *testing.T) {
	tests := []struct {
		name    string
		value   Embedding
		wantErr bool
	}{
		{name: "valid", value: makeEmbedding(0), wantErr: false},
		{name: "short", value: make(Embedding, 64), wantErr: true},
		{name: "empty", value: nil, wantErr: true},
		{name: "nan", value: func() Embedding { e := makeEmbedding(0); e[10] = math.NaN(); return e }(), wantErr: true},
		{name: "inf", value: func() Embedding { e := makeEmbedding(0); e[0] = math.Inf(-1); return e }(), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.value.MarshalBinary()
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	if _, err := Decode(make([]byte, 100)); !errors.Is(err, ErrBlobSize) {
		t.Fatalf("expected ErrBlobSize, got %v", err)
	}
	e, err := Decode(nil)
	if err != nil || e != nil {
		t.Fatalf("expected empty slot, got %v %v", e, err)
	}
}

func TestDistance(t *testing.T) {
	a := make(Embedding, Dimensions)
	b := make(Embedding, Dimensions)
	b[0] = 3
	b[1] = 4
	d, err := Distance(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 5 {
		t.Fatalf("expected 5, got %v", d)
	}
	if _, err := Distance(a, b[:10]); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected dimension error, got %v", err)
	}
}
