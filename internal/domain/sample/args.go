package sample

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// Args holds bound argument values keyed by parameter name.
type Args struct {
	values map[string]string
}

// NewArgs builds Args directly from a name/value map. Intended for callers
// (scenarios, tests) that already hold named values.
func NewArgs(values map[string]string) Args {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Args{values: cp}
}

// String returns the value of the named parameter, or "" when unset.
func (a Args) String(name string) string {
	return a.values[name]
}

// Has reports whether the named parameter carries a value.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Int parses the named parameter as a base-10 integer.
func (a Args) Int(name string) (int, error) {
	v, err := strconv.Atoi(a.values[name])
	if err != nil {
		return 0, a.invalid(name, "must be an integer")
	}
	return v, nil
}

// Bool parses the named parameter with strconv.ParseBool.
func (a Args) Bool(name string) (bool, error) {
	v, err := strconv.ParseBool(a.values[name])
	if err != nil {
		return false, a.invalid(name, "must be a boolean")
	}
	return v, nil
}

// Duration parses the named parameter with time.ParseDuration.
func (a Args) Duration(name string) (time.Duration, error) {
	v, err := time.ParseDuration(a.values[name])
	if err != nil {
		return 0, a.invalid(name, "must be a duration such as 30s or 5m")
	}
	return v, nil
}

// Map returns a copy of all bound values.
func (a Args) Map() map[string]string {
	cp := make(map[string]string, len(a.values))
	for k, v := range a.values {
		cp[k] = v
	}
	return cp
}

func (a Args) invalid(name, msg string) error {
	return domain.NewValidationError(name, fmt.Sprintf("%s, got %q", msg, a.values[name]))
}
