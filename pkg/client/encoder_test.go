package client

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phambaophuc/krakenio-client/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = Credentials{APIKey: "somekey", APISecret: "somesecret"}

const fillFixture = `{
	"auth": {"api_key": "somekey", "api_secret": "somesecret"},
	"dev": false,
	"wait": true,
	"webp": false,
	"lossy": false,
	"resize": {
		"strategy": "fill",
		"width": 150,
		"height": 150,
		"background": "rgba(100, 100, 100, 1)"
	}
}`

const minimalURLFixture = `{
	"auth": {"api_key": "somekey", "api_secret": "somesecret"},
	"url": "https://example.com/image.png",
	"dev": false,
	"wait": true,
	"webp": false,
	"lossy": false
}`

func fixedName() string { return "upload-name" }

func fillRequest(t *testing.T, src models.Source) *models.UploadRequest {
	t.Helper()
	bg := models.MustRGBA(100, 100, 100, 1)
	resize, err := models.FillResize(150, 150, &bg)
	require.NoError(t, err)

	req, err := models.NewBuilder(src).WithResize(resize).WithLossy(false).Build()
	require.NoError(t, err)
	return req
}

type parsedPart struct {
	name        string
	filename    string
	contentType string
	body        []byte
}

func readParts(t *testing.T, encoded *EncodedRequest) []parsedPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(encoded.ContentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(encoded.Body), params["boundary"])
	var parts []parsedPart
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, parsedPart{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			body:        body,
		})
	}
	return parts
}

func TestEncodeURLUploadMinimal(t *testing.T) {
	req, err := models.NewBuilder(models.FromURL("https://example.com/image.png")).Build()
	require.NoError(t, err)

	encoded, err := NewEncoder(testCreds, fixedName).EncodeUpload(req)
	require.NoError(t, err)

	assert.Equal(t, ImageURLPath, encoded.Path)
	assert.Equal(t, "application/json", encoded.ContentType)
	assert.JSONEq(t, minimalURLFixture, string(encoded.Body))
}

func TestEncodeStreamUploadMultipart(t *testing.T) {
	image := []byte("not really a jpeg")
	req := fillRequest(t, models.FromStream(bytes.NewReader(image)))

	encoded, err := NewEncoder(testCreds, fixedName).EncodeUpload(req)
	require.NoError(t, err)
	assert.Equal(t, DirectUploadPath, encoded.Path)

	parts := readParts(t, encoded)
	require.Len(t, parts, 2)

	assert.Equal(t, "data", parts[0].name)
	assert.Equal(t, "application/json", parts[0].contentType)
	assert.JSONEq(t, fillFixture, string(parts[0].body))

	assert.Equal(t, "upload", parts[1].name)
	assert.Equal(t, "upload-name", parts[1].filename)
	assert.Equal(t, "application/octet-stream", parts[1].contentType)
	assert.Equal(t, image, parts[1].body)
}

func TestEncodeFileUploadUsesBaseNameAndSniffedType(t *testing.T) {
	image := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, image, 0o600))

	req, err := models.NewBuilder(models.FromFile(path)).Build()
	require.NoError(t, err)

	encoded, err := NewEncoder(testCreds, fixedName).EncodeUpload(req)
	require.NoError(t, err)

	parts := readParts(t, encoded)
	require.Len(t, parts, 2)
	assert.Equal(t, "photo.png", parts[1].filename)
	assert.Equal(t, "image/png", parts[1].contentType)
	assert.Equal(t, image, parts[1].body)
}

func TestEncodeRejectsRequestWithoutSource(t *testing.T) {
	enc := NewEncoder(testCreds, fixedName)

	encoded, err := enc.EncodeUpload(new(models.UploadRequest))
	assert.Nil(t, encoded)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "image", ve.Field)

	encoded, err = enc.EncodeCallback(new(models.CallbackRequest))
	assert.Nil(t, encoded)
	assert.True(t, models.IsValidation(err))
}

func TestEncodeMissingFile(t *testing.T) {
	req, err := models.NewBuilder(models.FromFile(filepath.Join(t.TempDir(), "missing.jpg"))).Build()
	require.NoError(t, err)

	_, err = NewEncoder(testCreds, fixedName).EncodeUpload(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open image file")
}

func TestMultipartDataPartMatchesJSONEncoding(t *testing.T) {
	enc := NewEncoder(testCreds, fixedName)

	streamReq := fillRequest(t, models.FromStream(strings.NewReader("x")))
	encoded, err := enc.EncodeUpload(streamReq)
	require.NoError(t, err)
	parts := readParts(t, encoded)

	expected, err := json.Marshal(Envelope{Auth: testCreds, Payload: uploadPayload(streamReq)})
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(parts[0].body))
}

func TestEncodeCallbackRequest(t *testing.T) {
	req, err := models.NewBuilder(models.FromURL("https://example.com/image.png")).
		WithQuality(70).
		WithPreserveMeta(models.MetadataProfile, models.MetadataDate).
		WithAutoOrient(true).
		BuildWithCallback("https://hooks.example.com/kraken")
	require.NoError(t, err)

	encoded, err := NewEncoder(testCreds, fixedName).EncodeCallback(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"auth": {"api_key": "somekey", "api_secret": "somesecret"},
		"url": "https://example.com/image.png",
		"callback_url": "https://hooks.example.com/kraken",
		"dev": false,
		"webp": false,
		"lossy": true,
		"quality": 70,
		"preserve_meta": ["date", "profile"],
		"auto_orient": true
	}`, string(encoded.Body))
}

func TestEncodeConvert(t *testing.T) {
	keep := false
	convert, err := models.NewConvert(models.FormatPNG, nil, &keep)
	require.NoError(t, err)
	req, err := models.NewBuilder(models.FromURL("https://example.com/a.gif")).
		WithConvert(convert).
		WithDev(true).
		WithWebP(true).
		Build()
	require.NoError(t, err)

	encoded, err := NewEncoder(testCreds, fixedName).EncodeUpload(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"auth": {"api_key": "somekey", "api_secret": "somesecret"},
		"url": "https://example.com/a.gif",
		"dev": true,
		"wait": true,
		"webp": true,
		"lossy": false,
		"convert": {"format": "png", "keep_extension": false}
	}`, string(encoded.Body))
}

func TestEnvelopeFlattensPayload(t *testing.T) {
	env := Envelope{Auth: testCreds, Payload: map[string]interface{}{"dev": true}}

	fields := env.Fields()
	assert.Equal(t, true, fields["dev"])
	assert.Equal(t, testCreds, fields["auth"])

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"auth": {"api_key": "somekey", "api_secret": "somesecret"}, "dev": true}`, string(data))
}

func TestEscapeQuotes(t *testing.T) {
	assert.Equal(t, `my \"best\" photo.jpg`, escapeQuotes(`my "best" photo.jpg`))
}
