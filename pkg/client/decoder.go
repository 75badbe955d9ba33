package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/phambaophuc/krakenio-client/pkg/models"
)

var (
	errEmptyBody            = errors.New("empty response body")
	errMissingDiscriminator = errors.New(`response has no "success" field`)
	errMissingKrakedURL     = errors.New(`success payload has no "kraked_url"`)
)

// DecodeUploadResponse interprets the answer to an inline upload. The
// "success" field picks the variant, whatever the status says: a failure
// payload is a *models.RequestFailedError even on 200, and a body that fits
// no variant is a *models.ProtocolError.
func DecodeUploadResponse(status int, body []byte) (*models.UploadResult, error) {
	ok, err := discriminate(status, body)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, decodeFailure(status, body)
	}
	if status != http.StatusOK {
		return nil, &models.ProtocolError{Status: status, Err: fmt.Errorf("success payload with status %d", status)}
	}

	var result models.UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &models.ProtocolError{Status: status, Err: err}
	}
	if result.KrakedURL == "" {
		return nil, &models.ProtocolError{Status: status, Err: errMissingKrakedURL}
	}

	result.Status = status
	return &result, nil
}

// DecodeCallbackAck interprets the answer to a callback upload. It applies the
// same status and discriminator rules as DecodeUploadResponse.
func DecodeCallbackAck(status int, body []byte) (*models.CallbackAck, error) {
	ok, err := discriminate(status, body)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, decodeFailure(status, body)
	}
	if status != http.StatusOK {
		return nil, &models.ProtocolError{Status: status, Err: fmt.Errorf("success payload with status %d", status)}
	}

	var ack models.CallbackAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, &models.ProtocolError{Status: status, Err: err}
	}
	if ack.ID == "" {
		return nil, &models.ProtocolError{Status: status, Err: errors.New(`success payload has no "id"`)}
	}

	ack.Status = status
	return &ack, nil
}

// DecodeCallbackDelivery interprets the body the service posts to a callback
// URL when a job finishes. A failed job is a valid delivery, not an error.
func DecodeCallbackDelivery(body []byte) (*models.CallbackDelivery, error) {
	ok, err := discriminate(http.StatusOK, body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &models.ProtocolError{Status: http.StatusOK, Err: err}
	}
	if payload.ID == "" {
		return nil, &models.ProtocolError{Status: http.StatusOK, Err: errors.New(`delivery has no "id"`)}
	}

	delivery := &models.CallbackDelivery{ID: payload.ID}
	if !ok {
		var failure models.FailedResponse
		if err := json.Unmarshal(body, &failure); err != nil {
			return nil, &models.ProtocolError{Status: http.StatusOK, Err: err}
		}
		delivery.Failure = &failure
		return delivery, nil
	}

	var result models.UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &models.ProtocolError{Status: http.StatusOK, Err: err}
	}
	if result.KrakedURL == "" {
		return nil, &models.ProtocolError{Status: http.StatusOK, Err: errMissingKrakedURL}
	}
	delivery.Result = &result
	return delivery, nil
}

// discriminate reads the "success" field without committing to a variant.
func discriminate(status int, body []byte) (bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return false, &models.ProtocolError{Status: status, Err: errEmptyBody}
	}

	var probe struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return false, &models.ProtocolError{Status: status, Err: err}
	}
	if probe.Success == nil {
		return false, &models.ProtocolError{Status: status, Err: errMissingDiscriminator}
	}

	return *probe.Success, nil
}

func decodeFailure(status int, body []byte) error {
	var failure models.FailedResponse
	if err := json.Unmarshal(body, &failure); err != nil {
		return &models.ProtocolError{Status: status, Err: err}
	}
	failure.Status = status
	return &models.RequestFailedError{Response: &failure}
}
