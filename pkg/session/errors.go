package session

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("session: invalid configuration")

// ConfigurationError reports a distribution/range table that cannot be generated from.
type ConfigurationError struct {
	Category FocusCategory
	Feature  Feature
	Reason   string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Category != "" && e.Feature != "":
		return fmt.Sprintf("session: category %q feature %q: %s", e.Category, e.Feature, e.Reason)
	case e.Category != "":
		return fmt.Sprintf("session: category %q: %s", e.Category, e.Reason)
	default:
		return "session: " + e.Reason
	}
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
