package models

const (
	minQuality = 1
	maxQuality = 100
)

// Builder accumulates request options and validates them once, in Build or
// BuildWithCallback. It is not safe for concurrent use.
//
// Quality and lossy are coupled and the last call wins: WithQuality turns
// lossy on, WithLossy(false) drops any quality set before it.
//
//	NewBuilder(src).WithQuality(80).WithLossy(false) // lossy=false, no quality
//	NewBuilder(src).WithLossy(false).WithQuality(80) // lossy=true, quality=80
type Builder struct {
	source       Source
	dev          bool
	webp         bool
	lossy        bool
	autoOrient   bool
	quality      *int
	resize       *Resize
	preserveMeta MetadataSet
	convert      *Convert
}

// NewBuilder starts a request for src with every flag off and no metadata
// preserved.
func NewBuilder(src Source) *Builder {
	return &Builder{
		source:       src,
		preserveMeta: make(MetadataSet),
	}
}

// WithDev marks the request as a sandbox call: the service validates it
// without optimizing or billing.
func (b *Builder) WithDev(dev bool) *Builder {
	b.dev = dev
	return b
}

func (b *Builder) WithWebP(webp bool) *Builder {
	b.webp = webp
	return b
}

func (b *Builder) WithLossy(lossy bool) *Builder {
	b.lossy = lossy
	if !lossy {
		b.quality = nil
	}
	return b
}

func (b *Builder) WithQuality(quality int) *Builder {
	b.lossy = true
	b.quality = &quality
	return b
}

func (b *Builder) WithResize(resize *Resize) *Builder {
	b.resize = resize
	return b
}

func (b *Builder) WithPreserveMeta(tags ...Metadata) *Builder {
	if b.preserveMeta == nil {
		b.preserveMeta = make(MetadataSet)
	}
	for _, m := range tags {
		b.preserveMeta.Add(m)
	}
	return b
}

func (b *Builder) WithConvert(convert *Convert) *Builder {
	b.convert = convert
	return b
}

func (b *Builder) WithAutoOrient(autoOrient bool) *Builder {
	b.autoOrient = autoOrient
	return b
}

// Build returns a request that waits for the optimized result.
func (b *Builder) Build() (*UploadRequest, error) {
	req, err := b.build()
	if err != nil {
		return nil, err
	}
	req.wait = true
	return &UploadRequest{Request: req}, nil
}

// BuildWithCallback returns a request whose result is posted to callbackURL.
func (b *Builder) BuildWithCallback(callbackURL string) (*CallbackRequest, error) {
	req, err := b.build()
	if err != nil {
		return nil, err
	}
	if err := validateURL("callback_url", callbackURL); err != nil {
		return nil, err
	}
	return &CallbackRequest{Request: req, callbackURL: callbackURL}, nil
}

func (b *Builder) build() (Request, error) {
	if err := b.source.validate(); err != nil {
		return Request{}, err
	}

	req := Request{
		source:       b.source,
		dev:          b.dev,
		webp:         b.webp,
		lossy:        b.lossy,
		autoOrient:   b.autoOrient,
		resize:       b.resize,
		preserveMeta: b.preserveMeta.clone(),
		convert:      b.convert,
	}

	if b.quality != nil {
		q := *b.quality
		if q < minQuality || q > maxQuality {
			return Request{}, invalid("quality", "must be between %d-%d, got %d", minQuality, maxQuality, q)
		}
		if !b.lossy {
			return Request{}, invalid("quality", "can only be set if lossy is enabled")
		}
		req.quality = q
		req.hasQuality = true
	}

	if req.resize != nil && !req.resize.strategy.Valid() {
		return Request{}, invalid("resize", "unknown strategy %q", req.resize.strategy)
	}
	if req.convert != nil && !req.convert.format.Valid() {
		return Request{}, invalid("convert", "unsupported image format %q", req.convert.format)
	}
	for m := range req.preserveMeta {
		if !m.Valid() {
			return Request{}, invalid("preserve_meta", "unknown metadata tag %q", m)
		}
	}

	return req, nil
}
