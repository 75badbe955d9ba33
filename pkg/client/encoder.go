package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"

	"github.com/phambaophuc/krakenio-client/pkg/models"
	"github.com/phambaophuc/krakenio-client/pkg/utils"
)

const (
	DirectUploadPath = "/v1/upload"
	ImageURLPath     = "/v1/url"

	dataPart   = "data"
	uploadPart = "upload"

	contentTypeJSON   = "application/json"
	contentTypeBinary = "application/octet-stream"
)

// EncodedRequest is a request ready for the transport.
type EncodedRequest struct {
	Path        string
	ContentType string
	Body        []byte
}

// Encoder turns requests into wire bodies. It holds no per-call state and
// can be shared between goroutines.
type Encoder struct {
	creds Credentials
	namer func() string
}

// NewEncoder returns an encoder signing with creds. namer produces the
// filename of stream uploads; nil uses utils.GenerateUploadName.
func NewEncoder(creds Credentials, namer func() string) *Encoder {
	if namer == nil {
		namer = utils.GenerateUploadName
	}
	return &Encoder{creds: creds, namer: namer}
}

// EncodeUpload returns a *models.ValidationError for a request without an
// image source; nothing is encoded then.
func (e *Encoder) EncodeUpload(req *models.UploadRequest) (*EncodedRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return e.encode(&req.Request, uploadPayload(req))
}

func (e *Encoder) EncodeCallback(req *models.CallbackRequest) (*EncodedRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return e.encode(&req.Request, callbackPayload(req))
}

func (e *Encoder) encode(req *models.Request, payload map[string]interface{}) (*EncodedRequest, error) {
	meta, err := json.Marshal(Envelope{Auth: e.creds, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if !req.Channel().Direct() {
		return &EncodedRequest{Path: ImageURLPath, ContentType: contentTypeJSON, Body: meta}, nil
	}

	return e.encodeMultipart(req.Source(), meta)
}

func (e *Encoder) encodeMultipart(src models.Source, meta []byte) (*EncodedRequest, error) {
	image, filename, contentType, closeFn, err := e.openImage(src)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	dataHeader := make(textproto.MIMEHeader)
	dataHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, dataPart))
	dataHeader.Set("Content-Type", contentTypeJSON)
	part, err := w.CreatePart(dataHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create data part: %w", err)
	}
	if _, err := part.Write(meta); err != nil {
		return nil, fmt.Errorf("failed to write data part: %w", err)
	}

	uploadHeader := make(textproto.MIMEHeader)
	uploadHeader.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadPart, escapeQuotes(filename)))
	uploadHeader.Set("Content-Type", contentType)
	part, err = w.CreatePart(uploadHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload part: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &EncodedRequest{
		Path:        DirectUploadPath,
		ContentType: w.FormDataContentType(),
		Body:        buf.Bytes(),
	}, nil
}

func (e *Encoder) openImage(src models.Source) (io.Reader, string, string, func(), error) {
	if src.Channel() == models.ChannelStream {
		return src.Stream(), e.namer(), contentTypeBinary, func() {}, nil
	}

	f, err := os.Open(src.Path())
	if err != nil {
		return nil, "", "", nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return f, src.FileName(), utils.DetectFileContentType(src.Path()), func() { f.Close() }, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
