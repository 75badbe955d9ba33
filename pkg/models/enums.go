package models

import "sort"

// Strategy is the resize discriminator, serialized as its lowercase token.
type Strategy string

const (
	StrategyExact     Strategy = "exact"
	StrategyPortrait  Strategy = "portrait"
	StrategyLandscape Strategy = "landscape"
	StrategyAuto      Strategy = "auto"
	StrategyFit       Strategy = "fit"
	StrategyCrop      Strategy = "crop"
	StrategySquare    Strategy = "square"
	StrategyFill      Strategy = "fill"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyExact, StrategyPortrait, StrategyLandscape, StrategyAuto,
		StrategyFit, StrategyCrop, StrategySquare, StrategyFill:
		return true
	}
	return false
}

// ImageFormat is a conversion target.
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
	FormatGIF  ImageFormat = "gif"
)

func (f ImageFormat) Valid() bool {
	switch f {
	case FormatJPEG, FormatPNG, FormatGIF:
		return true
	}
	return false
}

// Metadata names a category of image metadata the service should keep.
// Metadata is stripped unless explicitly requested.
type Metadata string

const (
	MetadataProfile     Metadata = "profile"
	MetadataDate        Metadata = "date"
	MetadataCopyright   Metadata = "copyright"
	MetadataGeotag      Metadata = "geotag"
	MetadataOrientation Metadata = "orientation"
)

func (m Metadata) Valid() bool {
	switch m {
	case MetadataProfile, MetadataDate, MetadataCopyright, MetadataGeotag, MetadataOrientation:
		return true
	}
	return false
}

// MetadataSet is an unordered set of metadata tags; duplicates collapse.
type MetadataSet map[Metadata]struct{}

func (s MetadataSet) Add(m Metadata) {
	s[m] = struct{}{}
}

func (s MetadataSet) Contains(m Metadata) bool {
	_, ok := s[m]
	return ok
}

// Tokens returns the set sorted, so the wire form is stable.
func (s MetadataSet) Tokens() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, string(m))
	}
	sort.Strings(out)
	return out
}

func (s MetadataSet) clone() MetadataSet {
	c := make(MetadataSet, len(s))
	for m := range s {
		c[m] = struct{}{}
	}
	return c
}
