package models

// UploadResult is the success variant of an inline upload. Status is the
// HTTP status observed, not part of the payload.
type UploadResult struct {
	Success      bool   `json:"success"`
	FileName     string `json:"file_name"`
	OriginalSize int64  `json:"original_size"`
	KrakedSize   int64  `json:"kraked_size"`
	SavedBytes   int64  `json:"saved_bytes"`
	KrakedURL    string `json:"kraked_url"`
	Status       int    `json:"-"`
}

// CallbackAck is the success variant of a callback upload: the job was
// accepted and the result will be posted to the callback URL.
type CallbackAck struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Status  int    `json:"-"`
}

// FailedResponse is the failure variant shared by every endpoint.
type FailedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// CallbackDelivery is what the service posts to a callback URL once the job
// finished. Exactly one of Result and Failure is set.
type CallbackDelivery struct {
	ID      string          `json:"id"`
	Result  *UploadResult   `json:"result,omitempty"`
	Failure *FailedResponse `json:"failure,omitempty"`
}

func (d *CallbackDelivery) Succeeded() bool {
	return d.Result != nil
}
