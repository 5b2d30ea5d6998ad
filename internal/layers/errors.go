package layers

import (
	"errors"
	"fmt"
)

// ConfigError marks a configuration-class failure: the loaded
// parameters cannot produce valid results. Startup (or the run) aborts;
// the engine never clamps, renormalizes, or falls back around one.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Msg
}

// Configf builds a ConfigError.
func Configf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is configuration-class.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
