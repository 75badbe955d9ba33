package client

import (
	"encoding/json"

	"github.com/phambaophuc/krakenio-client/pkg/models"
)

const authField = "auth"

// Credentials authenticate every call.
type Credentials struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

// Envelope carries credentials next to a request payload. On the wire the
// payload fields are siblings of "auth", not nested under a key.
type Envelope struct {
	Auth    Credentials
	Payload map[string]interface{}
}

// Fields builds the flattened object sent to the service.
func (e Envelope) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		out[k] = v
	}
	out[authField] = e.Auth
	return out
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Fields())
}

// payloadFields maps the common options. Unset optional fields are left out
// entirely; dev, webp and lossy always carry a value.
func payloadFields(req *models.Request) map[string]interface{} {
	out := map[string]interface{}{
		"dev":   req.Dev(),
		"webp":  req.WebP(),
		"lossy": req.Lossy(),
	}

	if req.Channel() == models.ChannelURL {
		out["url"] = req.Source().URL()
	}
	if req.Wait() {
		out["wait"] = true
	}
	if q, ok := req.Quality(); ok {
		out["quality"] = q
	}
	if r := req.Resize(); r != nil {
		out["resize"] = r.Fields()
	}
	if c := req.Convert(); c != nil {
		out["convert"] = c.Fields()
	}
	if meta := req.PreserveMeta(); len(meta) > 0 {
		out["preserve_meta"] = meta.Tokens()
	}
	if req.AutoOrient() {
		out["auto_orient"] = true
	}

	return out
}

func uploadPayload(req *models.UploadRequest) map[string]interface{} {
	return payloadFields(&req.Request)
}

func callbackPayload(req *models.CallbackRequest) map[string]interface{} {
	out := payloadFields(&req.Request)
	out["callback_url"] = req.CallbackURL()
	return out
}
