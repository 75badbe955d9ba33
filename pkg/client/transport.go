package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Transport sends an encoded body and returns the raw answer. Retries,
// redirects, pooling and timeouts are its own business.
type Transport interface {
	Send(ctx context.Context, path, contentType string, body io.Reader) (status int, respBody []byte, err error)
}

// HTTPTransport posts to baseURL+path with net/http.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPTransport(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransport{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (t *HTTPTransport) Send(ctx context.Context, path, contentType string, body io.Reader) (int, []byte, error) {
	url := t.baseURL + path

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", contentTypeJSON)

	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		t.logger.Debug("Kraken.io request failed",
			zap.String("url", url),
			zap.Error(err))
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	t.logger.Debug("Kraken.io request",
		zap.String("url", url),
		zap.String("content_type", contentType),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.ByteString("response", respBody))

	return resp.StatusCode, respBody, nil
}
