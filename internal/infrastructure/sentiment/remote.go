package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"signalradar/internal/ports"
)

// RemoteEstimator asks an external inference service for a sentiment score
// and falls back to a local estimator when the service is unreachable, so
// the gate chain always gets an answer.
type RemoteEstimator struct {
	endpoint string
	http     *http.Client
	fallback ports.SentimentEstimator
	logger   *slog.Logger
}

var _ ports.SentimentEstimator = (*RemoteEstimator)(nil)

func NewRemoteEstimator(endpoint string, fallback ports.SentimentEstimator, logger *slog.Logger) *RemoteEstimator {
	return &RemoteEstimator{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		fallback: fallback,
		logger:   logger.With("component", "sentiment"),
	}
}

func (e *RemoteEstimator) Name() string { return "remote" }

func (e *RemoteEstimator) Score(text string) float64 {
	score, err := e.remoteScore(context.Background(), text)
	if err != nil {
		e.logger.Warn("inference service unavailable, using local estimator", "error", err)
		return e.fallback.Score(text)
	}
	return score
}

func (e *RemoteEstimator) remoteScore(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(map[string]any{"text": text})
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/sentiment", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var out struct {
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if out.Score < -1 || out.Score > 1 {
		return 0, fmt.Errorf("score %f out of range", out.Score)
	}
	return out.Score, nil
}
