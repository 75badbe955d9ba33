package models

import kraken "github.com/phambaophuc/krakenio-client/pkg/models"

// OptimizeRequest is the JSON body accepted by the optimize endpoints. For
// direct uploads it travels in the "payload" form field next to the image.
type OptimizeRequest struct {
	URL          string          `json:"url" binding:"omitempty,url"`
	Dev          bool            `json:"dev"`
	WebP         bool            `json:"webp"`
	Lossy        bool            `json:"lossy"`
	Quality      int             `json:"quality" binding:"omitempty,min=1,max=100"`
	AutoOrient   bool            `json:"auto_orient"`
	PreserveMeta []string        `json:"preserve_meta" binding:"omitempty,dive,oneof=profile date copyright geotag orientation"`
	Resize       *ResizeRequest  `json:"resize,omitempty"`
	Convert      *ConvertRequest `json:"convert,omitempty"`
}

type ResizeRequest struct {
	Strategy   string `json:"strategy" binding:"required,oneof=exact portrait landscape auto fit crop square fill"`
	Width      int    `json:"width" binding:"min=0"`
	Height     int    `json:"height" binding:"min=0"`
	Background string `json:"background,omitempty"`
}

type ConvertRequest struct {
	Format        string `json:"format" binding:"required,oneof=jpeg png gif"`
	Background    string `json:"background,omitempty"`
	KeepExtension *bool  `json:"keep_extension,omitempty"`
}

// OptimizeResult holds the inline result or, when a callback URL is
// configured, the job acknowledgment.
type OptimizeResult struct {
	Result *kraken.UploadResult `json:"result,omitempty"`
	Ack    *kraken.CallbackAck  `json:"ack,omitempty"`
}
