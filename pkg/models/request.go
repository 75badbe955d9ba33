package models

import (
	"io"
	"net/url"
	"path/filepath"
)

// Channel is the way the image reaches the service.
type Channel string

const (
	ChannelStream Channel = "stream"
	ChannelFile   Channel = "file"
	ChannelURL    Channel = "url"
)

// Direct reports whether the image bytes travel with the request.
func (c Channel) Direct() bool {
	return c == ChannelStream || c == ChannelFile
}

// Source is the image payload of a request: an open stream, a file on disk or
// a remote URL the service fetches itself.
type Source struct {
	channel Channel
	stream  io.Reader
	path    string
	url     string
}

func FromStream(r io.Reader) Source { return Source{channel: ChannelStream, stream: r} }

func FromFile(path string) Source { return Source{channel: ChannelFile, path: path} }

func FromURL(imageURL string) Source { return Source{channel: ChannelURL, url: imageURL} }

func (s Source) Channel() Channel  { return s.channel }
func (s Source) Stream() io.Reader { return s.stream }
func (s Source) Path() string      { return s.path }
func (s Source) URL() string       { return s.url }

// FileName is the base name of a file source.
func (s Source) FileName() string {
	if s.channel != ChannelFile {
		return ""
	}
	return filepath.Base(s.path)
}

func (s Source) validate() error {
	switch s.channel {
	case ChannelStream:
		if s.stream == nil {
			return invalid("image", "stream must not be nil")
		}
	case ChannelFile:
		if s.path == "" {
			return invalid("image", "file path must not be empty")
		}
	case ChannelURL:
		return validateURL("url", s.url)
	default:
		return invalid("image", "no image source given")
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return invalid(field, "must not be empty")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return invalid(field, "%v", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid(field, "must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}

// Request holds the optimization options shared by every upload variant.
// It is immutable once built.
type Request struct {
	source       Source
	dev          bool
	wait         bool
	webp         bool
	lossy        bool
	autoOrient   bool
	quality      int
	hasQuality   bool
	resize       *Resize
	preserveMeta MetadataSet
	convert      *Convert
}

func (r *Request) Source() Source   { return r.source }
func (r *Request) Channel() Channel { return r.source.channel }
func (r *Request) Dev() bool        { return r.dev }
func (r *Request) Wait() bool       { return r.wait }
func (r *Request) WebP() bool       { return r.webp }
func (r *Request) Lossy() bool      { return r.lossy }
func (r *Request) AutoOrient() bool { return r.autoOrient }

// Quality returns the lossy quality and whether one was set.
func (r *Request) Quality() (int, bool) { return r.quality, r.hasQuality }

func (r *Request) Resize() *Resize   { return r.resize }
func (r *Request) Convert() *Convert { return r.convert }

// PreserveMeta returns a copy of the requested metadata set.
func (r *Request) PreserveMeta() MetadataSet { return r.preserveMeta.clone() }

// Validate checks that the request carries an image. Requests from a Builder
// always pass; it guards values assembled without one.
func (r *Request) Validate() error { return r.source.validate() }

// UploadRequest waits for the optimized result inline.
type UploadRequest struct {
	Request
}

// CallbackRequest has the result delivered later to CallbackURL; the
// immediate response only acknowledges the job.
type CallbackRequest struct {
	Request
	callbackURL string
}

func (r *CallbackRequest) CallbackURL() string { return r.callbackURL }

func (r *CallbackRequest) Validate() error {
	if err := r.Request.Validate(); err != nil {
		return err
	}
	return validateURL("callback_url", r.callbackURL)
}
