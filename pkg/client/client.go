// Package client talks to the Kraken.io image optimization API: it encodes
// requests built with package models, hands them to a Transport and decodes
// the answers into typed results or typed errors.
package client

import (
	"bytes"
	"context"
	"time"

	"github.com/phambaophuc/krakenio-client/pkg/models"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.kraken.io"
	DefaultTimeout = 3 * time.Second
)

type options struct {
	baseURL   string
	timeout   time.Duration
	transport Transport
	logger    *zap.Logger
	namer     func() string
}

type Option func(*options)

func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithTransport replaces the default HTTP transport. Base URL and timeout
// are then ignored.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithUploadNamer sets the filename generator for stream uploads.
func WithUploadNamer(namer func() string) Option {
	return func(o *options) { o.namer = namer }
}

// Client is safe for concurrent use when its Transport is.
type Client struct {
	encoder   *Encoder
	transport Transport
}

func New(apiKey, apiSecret string, opts ...Option) (*Client, error) {
	o := options{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if apiKey == "" {
		return nil, &models.ValidationError{Field: "api_key", Reason: "must not be empty"}
	}
	if apiSecret == "" {
		return nil, &models.ValidationError{Field: "api_secret", Reason: "must not be empty"}
	}
	if o.transport == nil {
		if o.baseURL == "" {
			return nil, &models.ValidationError{Field: "base_url", Reason: "must not be empty"}
		}
		o.transport = NewHTTPTransport(o.baseURL, o.timeout, o.logger)
	}

	return &Client{
		encoder:   NewEncoder(Credentials{APIKey: apiKey, APISecret: apiSecret}, o.namer),
		transport: o.transport,
	}, nil
}

// Upload sends an image by stream, file or URL and waits for the optimized
// result.
func (c *Client) Upload(ctx context.Context, req *models.UploadRequest) (*models.UploadResult, error) {
	encoded, err := c.encoder.EncodeUpload(req)
	if err != nil {
		return nil, err
	}

	status, body, err := c.send(ctx, encoded)
	if err != nil {
		return nil, err
	}

	return DecodeUploadResponse(status, body)
}

// UploadWithCallback sends an image whose result is posted to the request's
// callback URL. The returned ack carries the job id.
func (c *Client) UploadWithCallback(ctx context.Context, req *models.CallbackRequest) (*models.CallbackAck, error) {
	encoded, err := c.encoder.EncodeCallback(req)
	if err != nil {
		return nil, err
	}

	status, body, err := c.send(ctx, encoded)
	if err != nil {
		return nil, err
	}

	return DecodeCallbackAck(status, body)
}

func (c *Client) send(ctx context.Context, encoded *EncodedRequest) (int, []byte, error) {
	return c.transport.Send(ctx, encoded.Path, encoded.ContentType, bytes.NewReader(encoded.Body))
}
