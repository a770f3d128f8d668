// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/render"
	"github.com/appgrep/appgrep/internal/search"
)

const (
	// ColorSchemeAuto detects the terminal background automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"

	// DefaultTimeout is the default per-provider discovery timeout.
	DefaultTimeout = 5 * time.Second
	// DefaultSampleSize is the default number of names doctor lists per provider.
	DefaultSampleSize = 5
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDiscoveryConfig is the sentinel error wrapped by InvalidDiscoveryConfigError.
	ErrInvalidDiscoveryConfig = errors.New("invalid discovery config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidDoctorConfig is the sentinel error wrapped by InvalidDoctorConfigError.
	ErrInvalidDoctorConfig = errors.New("invalid doctor config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidDiscoveryConfigError collects field-level discovery errors.
	InvalidDiscoveryConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError collects field-level UI errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidDoctorConfigError collects field-level doctor errors.
	InvalidDoctorConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Discovery configures the provider fan-out.
		Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`
		// Search configures fuzzy ranking.
		Search SearchConfig `json:"search" mapstructure:"search"`
		// UI configures output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Doctor configures the health report.
		Doctor DoctorConfig `json:"doctor" mapstructure:"doctor"`
	}

	// DiscoveryConfig controls which providers run and how long they may take.
	DiscoveryConfig struct {
		// Timeout bounds each provider's discovery.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
		// MaxParallel caps concurrent providers; 0 runs all at once.
		MaxParallel int `json:"max_parallel" mapstructure:"max_parallel"`
		// Disabled lists sources that never run.
		Disabled []catalog.Source `json:"disabled" mapstructure:"disabled"`
		// StandaloneDirs adds directories to the standalone scan.
		StandaloneDirs []string `json:"standalone_dirs" mapstructure:"standalone_dirs"`
	}

	// SearchConfig holds the match tier weights.
	SearchConfig struct {
		Weights search.Weights `json:"weights" mapstructure:"weights"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Format is the default output format.
		Format render.Format `json:"format" mapstructure:"format"`
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// NoColor disables styled output.
		NoColor bool `json:"no_color" mapstructure:"no_color"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// DoctorConfig configures the doctor report.
	DoctorConfig struct {
		// SampleSize is how many names each provider entry lists.
		SampleSize int `json:"sample_size" mapstructure:"sample_size"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			Timeout:        DefaultTimeout,
			MaxParallel:    0,
			Disabled:       []catalog.Source{},
			StandaloneDirs: []string{},
		},
		Search: SearchConfig{Weights: search.DefaultWeights()},
		UI: UIConfig{
			Format:      render.FormatTable,
			ColorScheme: ColorSchemeAuto,
		},
		Doctor: DoctorConfig{SampleSize: DefaultSampleSize},
	}
}

// EnabledSources returns every source not listed in Disabled, in
// priority order.
func (c DiscoveryConfig) EnabledSources() []catalog.Source {
	return slices.DeleteFunc(catalog.AllSources(), func(s catalog.Source) bool {
		return slices.Contains(c.Disabled, s)
	})
}

// IsValid returns whether the DiscoveryConfig has valid fields.
func (c DiscoveryConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("discovery.timeout must be positive, got %s", c.Timeout))
	}
	if c.MaxParallel < 0 {
		errs = append(errs, fmt.Errorf("discovery.max_parallel must not be negative, got %d", c.MaxParallel))
	}
	for _, s := range c.Disabled {
		if valid, fieldErrs := s.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for i, dir := range c.StandaloneDirs {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmt.Errorf("discovery.standalone_dirs[%d] must not be blank", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidDiscoveryConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDiscoveryConfigError.
func (e *InvalidDiscoveryConfigError) Error() string {
	return fmt.Sprintf("invalid discovery config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidDiscoveryConfig for errors.Is() compatibility.
func (e *InvalidDiscoveryConfigError) Unwrap() error { return ErrInvalidDiscoveryConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to Format.IsValid() and ColorScheme.IsValid(); bool fields
// need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the DoctorConfig has valid fields.
func (c DoctorConfig) IsValid() (bool, []error) {
	if c.SampleSize < 1 {
		return false, []error{&InvalidDoctorConfigError{FieldErrors: []error{
			fmt.Errorf("doctor.sample_size must be at least 1, got %d", c.SampleSize),
		}}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDoctorConfigError.
func (e *InvalidDoctorConfigError) Error() string {
	return fmt.Sprintf("invalid doctor config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidDoctorConfig for errors.Is() compatibility.
func (e *InvalidDoctorConfigError) Unwrap() error { return ErrInvalidDoctorConfig }

// IsValid returns whether the Config has valid fields. It delegates to
// each section and to the search weights.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Discovery.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Search.Weights.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Doctor.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DarkBackground returns the forced background for the scheme, or nil
// when the terminal should decide.
func (cs ColorScheme) DarkBackground() *bool {
	var dark bool
	switch cs {
	case ColorSchemeDark:
		dark = true
	case ColorSchemeLight:
		dark = false
	default:
		return nil
	}
	return &dark
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
