package service

import (
	"context"
	"strings"
	"testing"

	"github.com/phambaophuc/krakenio-client/internal/models"
	kraken "github.com/phambaophuc/krakenio-client/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockUploader struct {
	upload   *kraken.UploadRequest
	callback *kraken.CallbackRequest
	err      error
}

func (m *mockUploader) Upload(_ context.Context, req *kraken.UploadRequest) (*kraken.UploadResult, error) {
	m.upload = req
	if m.err != nil {
		return nil, m.err
	}
	return &kraken.UploadResult{Success: true, KrakedURL: "http://dl.kraken.io/x.jpg", SavedBytes: 10, Status: 200}, nil
}

func (m *mockUploader) UploadWithCallback(_ context.Context, req *kraken.CallbackRequest) (*kraken.CallbackAck, error) {
	m.callback = req
	if m.err != nil {
		return nil, m.err
	}
	return &kraken.CallbackAck{Success: true, ID: "job-1", Status: 200}, nil
}

func TestOptimizeURLWaitsForResult(t *testing.T) {
	uploader := &mockUploader{}
	svc := NewOptimizerService(uploader, "", zaptest.NewLogger(t))

	keep := true
	result, err := svc.OptimizeURL(context.Background(), &models.OptimizeRequest{
		URL:          "https://example.com/a.png",
		WebP:         true,
		Quality:      75,
		PreserveMeta: []string{"date", "profile"},
		Resize:       &models.ResizeRequest{Strategy: "fill", Width: 150, Height: 150, Background: "rgba(100, 100, 100, 1)"},
		Convert:      &models.ConvertRequest{Format: "png", KeepExtension: &keep},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Result)
	assert.Nil(t, result.Ack)

	req := uploader.upload
	require.NotNil(t, req)
	assert.Equal(t, "https://example.com/a.png", req.Source().URL())
	assert.True(t, req.WebP())
	assert.True(t, req.Lossy())
	q, ok := req.Quality()
	assert.True(t, ok)
	assert.Equal(t, 75, q)
	assert.Equal(t, []string{"date", "profile"}, req.PreserveMeta().Tokens())
	assert.Equal(t, kraken.StrategyFill, req.Resize().Strategy())
	bg, ok := req.Resize().Background()
	assert.True(t, ok)
	assert.Equal(t, kraken.MustRGBA(100, 100, 100, 1), bg)
	assert.Equal(t, kraken.FormatPNG, req.Convert().Format())
}

func TestOptimizeUploadWithCallback(t *testing.T) {
	uploader := &mockUploader{}
	svc := NewOptimizerService(uploader, "https://hooks.example.com/api/v1/callbacks", zaptest.NewLogger(t))

	result, err := svc.OptimizeUpload(context.Background(), strings.NewReader("img"), &models.OptimizeRequest{})
	require.NoError(t, err)
	require.NotNil(t, result.Ack)
	assert.Equal(t, "job-1", result.Ack.ID)
	assert.Nil(t, uploader.upload)

	req := uploader.callback
	require.NotNil(t, req)
	assert.Equal(t, kraken.ChannelStream, req.Channel())
	assert.Equal(t, "https://hooks.example.com/api/v1/callbacks", req.CallbackURL())
}

func TestOptimizeValidation(t *testing.T) {
	svc := NewOptimizerService(&mockUploader{}, "", zaptest.NewLogger(t))
	ctx := context.Background()

	tests := map[string]*models.OptimizeRequest{
		"missing url":             {},
		"quality too high":        {URL: "https://example.com/a.png", Quality: 101},
		"unknown strategy":        {URL: "https://example.com/a.png", Resize: &models.ResizeRequest{Strategy: "stretch", Width: 1, Height: 1}},
		"portrait without height": {URL: "https://example.com/a.png", Resize: &models.ResizeRequest{Strategy: "portrait", Width: 10}},
		"bad background":          {URL: "https://example.com/a.png", Resize: &models.ResizeRequest{Strategy: "fill", Width: 1, Height: 1, Background: "red"}},
		"bad format":              {URL: "https://example.com/a.png", Convert: &models.ConvertRequest{Format: "bmp"}},
		"unknown metadata":        {URL: "https://example.com/a.png", PreserveMeta: []string{"exif"}},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.OptimizeURL(ctx, req)
			assert.True(t, kraken.IsValidation(err), "got %v", err)
		})
	}
}

func TestOptimizePropagatesClientErrors(t *testing.T) {
	failed := &kraken.RequestFailedError{Response: &kraken.FailedResponse{Message: "Unknown API Key", Status: 401}}
	svc := NewOptimizerService(&mockUploader{err: failed}, "", zaptest.NewLogger(t))

	_, err := svc.OptimizeURL(context.Background(), &models.OptimizeRequest{URL: "https://example.com/a.png"})
	resp, ok := kraken.AsRequestFailed(err)
	require.True(t, ok)
	assert.Equal(t, 401, resp.Status)
}

func TestToResizeCoversEveryStrategy(t *testing.T) {
	for _, s := range []kraken.Strategy{
		kraken.StrategyExact, kraken.StrategyPortrait, kraken.StrategyLandscape, kraken.StrategyAuto,
		kraken.StrategyFit, kraken.StrategyCrop, kraken.StrategySquare, kraken.StrategyFill,
	} {
		r, err := toResize(&models.ResizeRequest{Strategy: string(s), Width: 10, Height: 20})
		require.NoError(t, err, s)
		assert.Equal(t, s, r.Strategy())
	}
}
