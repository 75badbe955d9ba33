package models

// Convert asks the service to change the image format. Background is used to
// flatten transparency; KeepExtension keeps the original file extension.
type Convert struct {
	format        ImageFormat
	background    *RGBA
	keepExtension *bool
}

// NewConvert validates the target format. background and keepExtension are
// optional and omitted from the wire when nil.
func NewConvert(format ImageFormat, background *RGBA, keepExtension *bool) (*Convert, error) {
	if !format.Valid() {
		return nil, invalid("format", "unsupported image format %q", format)
	}

	c := &Convert{format: format}
	if background != nil {
		bg := *background
		c.background = &bg
	}
	if keepExtension != nil {
		keep := *keepExtension
		c.keepExtension = &keep
	}
	return c, nil
}

func (c *Convert) Format() ImageFormat { return c.format }

func (c *Convert) Background() (RGBA, bool) {
	if c.background == nil {
		return RGBA{}, false
	}
	return *c.background, true
}

func (c *Convert) KeepExtension() (bool, bool) {
	if c.keepExtension == nil {
		return false, false
	}
	return *c.keepExtension, true
}

// Fields returns the wire mapping of the directive.
func (c *Convert) Fields() map[string]interface{} {
	out := map[string]interface{}{"format": string(c.format)}
	if bg, ok := c.Background(); ok {
		out["background"] = bg.String()
	}
	if keep, ok := c.KeepExtension(); ok {
		out["keep_extension"] = keep
	}
	return out
}
