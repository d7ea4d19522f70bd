package extractor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"faceauth/internal/biometric"

	"github.com/sirupsen/logrus"
)

const maxResponseBytes = 4 << 20

type embedRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Pixels string `json:"pixels"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

// RemoteExtractor calls an out-of-process face embedding service over HTTP.
type RemoteExtractor struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewRemoteExtractor creates a client for the embedding service at endpoint.
func NewRemoteExtractor(endpoint, apiKey string, timeout time.Duration) (*RemoteExtractor, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("extractor endpoint is not configured")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteExtractor{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(apiKey),
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Extract sends the frame to the embedding service.
func (r *RemoteExtractor) Extract(ctx context.Context, frame *Frame) ([]biometric.Embedding, error) {
	if frame == nil || len(frame.Pix) != frame.Width*frame.Height*3 {
		return nil, fmt.Errorf("%w: frame buffer does not match dimensions", ErrInvalidImage)
	}

	body, err := json.Marshal(embedRequest{
		Width:  frame.Width,
		Height: frame.Height,
		Format: "rgb24",
		Pixels: base64.StdEncoding.EncodeToString(frame.Pix),
	})
	if err != nil {
		return nil, fmt.Errorf("encode extractor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build extractor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call extractor: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read extractor response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"endpoint": r.endpoint,
			"status":   resp.StatusCode,
			"body":     snippet(string(raw)),
		}).Error("extractor request failed")
		return nil, fmt.Errorf("extractor http %d", resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode extractor response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("extractor: %s", parsed.Error)
	}

	out := make([]biometric.Embedding, 0, len(parsed.Embeddings))
	for i, values := range parsed.Embeddings {
		emb := biometric.Embedding(values)
		if err := emb.Validate(); err != nil {
			return nil, fmt.Errorf("extractor face %d: %w", i, err)
		}
		out = append(out, emb)
	}
	return out, nil
}

func snippet(value string) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= 120 {
		return value
	}
	return string(runes[:120]) + "..."
}

var _ Extractor = (*RemoteExtractor)(nil)
