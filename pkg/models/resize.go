package models

// Resize is a tagged union over the service's resize strategies. The strategy
// decides which of width, height and background are present; absent fields
// are never emitted.
type Resize struct {
	strategy   Strategy
	width      int
	height     int
	background *RGBA
}

func ExactResize(width, height int) (*Resize, error) {
	return dimensionResize(StrategyExact, width, height)
}

func AutoResize(width, height int) (*Resize, error) {
	return dimensionResize(StrategyAuto, width, height)
}

func FitResize(width, height int) (*Resize, error) {
	return dimensionResize(StrategyFit, width, height)
}

func CropResize(width, height int) (*Resize, error) {
	return dimensionResize(StrategyCrop, width, height)
}

func SquareResize(width, height int) (*Resize, error) {
	return dimensionResize(StrategySquare, width, height)
}

// PortraitResize fixes the height and lets the width follow the aspect ratio.
func PortraitResize(height int) (*Resize, error) {
	if err := positive("height", height); err != nil {
		return nil, err
	}
	return &Resize{strategy: StrategyPortrait, height: height}, nil
}

// LandscapeResize fixes the width and lets the height follow the aspect ratio.
func LandscapeResize(width int) (*Resize, error) {
	if err := positive("width", width); err != nil {
		return nil, err
	}
	return &Resize{strategy: StrategyLandscape, width: width}, nil
}

// FillResize letterboxes the image into width x height. A nil background
// leaves the choice of fill colour to the service.
func FillResize(width, height int, background *RGBA) (*Resize, error) {
	r, err := dimensionResize(StrategyFill, width, height)
	if err != nil {
		return nil, err
	}
	if background != nil {
		bg := *background
		r.background = &bg
	}
	return r, nil
}

func dimensionResize(strategy Strategy, width, height int) (*Resize, error) {
	if err := positive("width", width); err != nil {
		return nil, err
	}
	if err := positive("height", height); err != nil {
		return nil, err
	}
	return &Resize{strategy: strategy, width: width, height: height}, nil
}

func positive(field string, v int) error {
	if v <= 0 {
		return invalid(field, "must be a positive integer, got %d", v)
	}
	return nil
}

func (r *Resize) Strategy() Strategy { return r.strategy }

// Width returns the width and whether the strategy carries one.
func (r *Resize) Width() (int, bool) { return r.width, r.width > 0 }

// Height returns the height and whether the strategy carries one.
func (r *Resize) Height() (int, bool) { return r.height, r.height > 0 }

func (r *Resize) Background() (RGBA, bool) {
	if r.background == nil {
		return RGBA{}, false
	}
	return *r.background, true
}

// Fields returns the wire mapping of the directive with the strategy tag.
func (r *Resize) Fields() map[string]interface{} {
	out := map[string]interface{}{"strategy": string(r.strategy)}
	if w, ok := r.Width(); ok {
		out["width"] = w
	}
	if h, ok := r.Height(); ok {
		out["height"] = h
	}
	if bg, ok := r.Background(); ok {
		out["background"] = bg.String()
	}
	return out
}
