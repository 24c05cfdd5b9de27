package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of an error response is kept for logging
const maxErrorBody = 512

// Requester performs the single GET each provider call makes and decodes the JSON body
type Requester struct {
	api        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRequester creates a Requester for the named API. A zero timeout means no client timeout;
// the request context still applies.
func NewRequester(api string, timeout time.Duration, logger *zap.Logger) *Requester {
	return &Requester{
		api: api,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GetJSON sends GET endpoint?params and decodes a 2xx body into out.
// Every failure to obtain a 2xx response is returned as a *NetworkError.
func (r *Requester) GetJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	target := endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		r.logger.Error("API request failed",
			zap.String("api", r.api),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return &NetworkError{API: r.api, Err: err}
	}
	defer resp.Body.Close()

	r.logger.Info("API response",
		zap.String("api", r.api),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		r.logger.Error("API returned error status",
			zap.String("api", r.api),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return &NetworkError{
			API:        r.api,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		r.logger.Error("API response could not be decoded",
			zap.String("api", r.api),
			zap.Error(err),
		)
		return &NetworkError{API: r.api, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return nil
}
