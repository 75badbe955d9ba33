package service

import (
	"context"
	"fmt"
	"io"

	"github.com/phambaophuc/krakenio-client/internal/models"
	kraken "github.com/phambaophuc/krakenio-client/pkg/models"
	"go.uber.org/zap"
)

type uploader interface {
	Upload(ctx context.Context, req *kraken.UploadRequest) (*kraken.UploadResult, error)
	UploadWithCallback(ctx context.Context, req *kraken.CallbackRequest) (*kraken.CallbackAck, error)
}

// OptimizerService submits images to Kraken.io. With a callback URL the jobs
// run asynchronously and finish through CallbackService.
type OptimizerService struct {
	client      uploader
	callbackURL string
	logger      *zap.Logger
}

func NewOptimizerService(client uploader, callbackURL string, logger *zap.Logger) *OptimizerService {
	return &OptimizerService{
		client:      client,
		callbackURL: callbackURL,
		logger:      logger,
	}
}

func (s *OptimizerService) OptimizeURL(ctx context.Context, req *models.OptimizeRequest) (*models.OptimizeResult, error) {
	if req.URL == "" {
		return nil, &kraken.ValidationError{Field: "url", Reason: "must not be empty"}
	}
	return s.submit(ctx, kraken.FromURL(req.URL), req)
}

func (s *OptimizerService) OptimizeUpload(ctx context.Context, image io.Reader, req *models.OptimizeRequest) (*models.OptimizeResult, error) {
	return s.submit(ctx, kraken.FromStream(image), req)
}

func (s *OptimizerService) submit(ctx context.Context, src kraken.Source, req *models.OptimizeRequest) (*models.OptimizeResult, error) {
	builder, err := newBuilder(src, req)
	if err != nil {
		return nil, err
	}

	if s.callbackURL == "" {
		upload, err := builder.Build()
		if err != nil {
			return nil, err
		}
		result, err := s.client.Upload(ctx, upload)
		if err != nil {
			return nil, err
		}
		s.logger.Info("Image optimized",
			zap.String("channel", string(src.Channel())),
			zap.Int64("saved_bytes", result.SavedBytes))
		return &models.OptimizeResult{Result: result}, nil
	}

	upload, err := builder.BuildWithCallback(s.callbackURL)
	if err != nil {
		return nil, err
	}
	ack, err := s.client.UploadWithCallback(ctx, upload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Optimization job accepted",
		zap.String("channel", string(src.Channel())),
		zap.String("job_id", ack.ID))
	return &models.OptimizeResult{Ack: ack}, nil
}

// newBuilder maps the API body onto a request builder. Lossy is applied
// before quality so a quality in the body always enables lossy compression.
func newBuilder(src kraken.Source, req *models.OptimizeRequest) (*kraken.Builder, error) {
	b := kraken.NewBuilder(src).
		WithDev(req.Dev).
		WithWebP(req.WebP).
		WithLossy(req.Lossy).
		WithAutoOrient(req.AutoOrient)

	if req.Quality != 0 {
		b.WithQuality(req.Quality)
	}

	for _, tag := range req.PreserveMeta {
		b.WithPreserveMeta(kraken.Metadata(tag))
	}

	if req.Resize != nil {
		resize, err := toResize(req.Resize)
		if err != nil {
			return nil, err
		}
		b.WithResize(resize)
	}

	if req.Convert != nil {
		background, err := parseBackground(req.Convert.Background)
		if err != nil {
			return nil, err
		}
		convert, err := kraken.NewConvert(kraken.ImageFormat(req.Convert.Format), background, req.Convert.KeepExtension)
		if err != nil {
			return nil, err
		}
		b.WithConvert(convert)
	}

	return b, nil
}

func toResize(r *models.ResizeRequest) (*kraken.Resize, error) {
	switch kraken.Strategy(r.Strategy) {
	case kraken.StrategyExact:
		return kraken.ExactResize(r.Width, r.Height)
	case kraken.StrategyPortrait:
		return kraken.PortraitResize(r.Height)
	case kraken.StrategyLandscape:
		return kraken.LandscapeResize(r.Width)
	case kraken.StrategyAuto:
		return kraken.AutoResize(r.Width, r.Height)
	case kraken.StrategyFit:
		return kraken.FitResize(r.Width, r.Height)
	case kraken.StrategyCrop:
		return kraken.CropResize(r.Width, r.Height)
	case kraken.StrategySquare:
		return kraken.SquareResize(r.Width, r.Height)
	case kraken.StrategyFill:
		background, err := parseBackground(r.Background)
		if err != nil {
			return nil, err
		}
		return kraken.FillResize(r.Width, r.Height, background)
	}
	return nil, &kraken.ValidationError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", r.Strategy)}
}

func parseBackground(s string) (*kraken.RGBA, error) {
	if s == "" {
		return nil, nil
	}
	c, err := kraken.ParseRGBA(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
