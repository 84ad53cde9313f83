package config

import (
	"errors"
	"fmt"

	"media-wall/internal/mathutil"
)

// Gallery describes the wall's grid shape, scroll response and curvature.
// It is a value type: hot reload replaces it wholesale.
type Gallery struct {
	Columns           int     `json:"columns" toml:"columns"`
	Rows              int     `json:"rows" toml:"rows"`
	ScrollSensitivity float64 `json:"scroll_sensitivity" toml:"scroll_sensitivity"`
	Smoothing         float64 `json:"smoothing" toml:"smoothing"`
	CurveDepth        float64 `json:"curve_depth" toml:"curve_depth"`
	CurveWidth        float64 `json:"curve_width" toml:"curve_width"`
	Gap               float64 `json:"gap" toml:"gap"`
	CameraDistance    float64 `json:"camera_distance" toml:"camera_distance"`
}

// DefaultGallery returns the settings used when no config file is given.
func DefaultGallery() Gallery {
	return Gallery{
		Columns:           5,
		Rows:              4,
		ScrollSensitivity: 0.005,
		Smoothing:         0.1,
		CurveDepth:        1.5,
		CurveWidth:        3,
		Gap:               0.08,
		CameraDistance:    8,
	}
}

// ConfigError reports one invalid gallery field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks every field and returns all violations joined together,
// or nil. Each violation is a *ConfigError.
func (g Gallery) Validate() error {
	var errs []error
	if g.Columns <= 0 {
		errs = append(errs, &ConfigError{"columns", g.Columns, "must be positive"})
	}
	if g.Rows <= 0 {
		errs = append(errs, &ConfigError{"rows", g.Rows, "must be positive"})
	}
	if err := ValidateScroll(g.ScrollSensitivity, g.Smoothing); err != nil {
		errs = append(errs, err)
	}
	switch {
	case !mathutil.IsFinite(g.CurveDepth):
		errs = append(errs, &ConfigError{"curve_depth", g.CurveDepth, "must be finite"})
	case g.CurveDepth < 0:
		errs = append(errs, &ConfigError{"curve_depth", g.CurveDepth, "must not be negative"})
	}
	if !mathutil.IsFinite(g.CurveWidth) || g.CurveWidth <= 0 {
		errs = append(errs, &ConfigError{"curve_width", g.CurveWidth, "must be positive and finite"})
	}
	if !mathutil.IsFinite(g.Gap) || g.Gap < 0 || g.Gap >= 1 {
		errs = append(errs, &ConfigError{"gap", g.Gap, "must be in [0, 1)"})
	}
	if !mathutil.IsFinite(g.CameraDistance) || g.CameraDistance <= 0 {
		errs = append(errs, &ConfigError{"camera_distance", g.CameraDistance, "must be positive and finite"})
	}
	return errors.Join(errs...)
}

// ValidateScroll checks the two parameters the scroll integrator depends on.
// Smoothing >= 1 overshoots and smoothing <= 0 never moves.
func ValidateScroll(sensitivity, smoothing float64) error {
	var errs []error
	if !mathutil.IsFinite(sensitivity) || sensitivity <= 0 {
		errs = append(errs, &ConfigError{"scroll_sensitivity", sensitivity, "must be positive and finite"})
	}
	if !mathutil.IsFinite(smoothing) || smoothing <= 0 || smoothing >= 1 {
		errs = append(errs, &ConfigError{"smoothing", smoothing, "must be strictly between 0 and 1"})
	}
	return errors.Join(errs...)
}
