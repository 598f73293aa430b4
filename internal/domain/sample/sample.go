// Package sample describes runnable samples: their names, the product they
// belong to, and the positional parameters they accept on the command line.
package sample

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// namePattern restricts sample and product names to lower snake case, which
// is also the form used in CLI invocations and HTTP paths.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Sample describes a single runnable sample.
type Sample struct {
	Name    string
	Product string
	Summary string
	Params  []Param
	// LocalOnly marks samples that read or write host files, mint ID tokens,
	// call caller-chosen URLs or print secret material. They run from the
	// CLI only.
	LocalOnly bool
}

// Param describes one positional argument of a sample.
type Param struct {
	Name     string
	Usage    string
	Optional bool
	Default  string
}

// Validate checks that the descriptor is well formed: names are snake case,
// parameter names are unique, and optional parameters only trail required ones.
func (s *Sample) Validate() error {
	fields := make(map[string]string)

	if !namePattern.MatchString(s.Name) {
		fields["name"] = fmt.Sprintf("must be lower snake case, got %q", s.Name)
	}
	if !namePattern.MatchString(s.Product) {
		fields["product"] = fmt.Sprintf("must be lower snake case, got %q", s.Product)
	}
	if strings.TrimSpace(s.Summary) == "" {
		fields["summary"] = domain.MsgRequired
	}

	seen := make(map[string]bool, len(s.Params))
	sawOptional := false
	for i, p := range s.Params {
		key := fmt.Sprintf("params[%d]", i)
		switch {
		case strings.TrimSpace(p.Name) == "":
			fields[key] = "name " + domain.MsgRequired
		case seen[p.Name]:
			fields[key] = fmt.Sprintf("duplicate parameter %q", p.Name)
		case sawOptional && !p.Optional:
			fields[key] = fmt.Sprintf("required parameter %q follows an optional one", p.Name)
		}
		seen[p.Name] = true
		if p.Optional {
			sawOptional = true
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Required returns the number of mandatory positional arguments.
func (s *Sample) Required() int {
	n := 0
	for _, p := range s.Params {
		if !p.Optional {
			n++
		}
	}
	return n
}

// Usage renders the one-line invocation synopsis, e.g.
// "upload_object BUCKET OBJECT SOURCE" or "create_bucket BUCKET [LOCATION]".
func (s *Sample) Usage() string {
	var b strings.Builder
	b.WriteString(s.Name)
	for _, p := range s.Params {
		b.WriteByte(' ')
		if p.Optional {
			b.WriteString("[" + p.Name + "]")
		} else {
			b.WriteString(p.Name)
		}
	}
	return b.String()
}

// Bind maps positional arguments onto the sample's parameters in order,
// filling defaults for omitted optional parameters. It returns a
// *domain.ValidationError when too few or too many arguments are supplied.
func (s *Sample) Bind(args []string) (Args, error) {
	if len(args) < s.Required() || len(args) > len(s.Params) {
		return Args{}, domain.NewValidationError("args", fmt.Sprintf(
			"expected %s, got %d argument(s); usage: %s", s.arity(), len(args), s.Usage()))
	}

	values := make(map[string]string, len(s.Params))
	for i, p := range s.Params {
		switch {
		case i < len(args):
			values[p.Name] = args[i]
		case p.Default != "":
			values[p.Name] = p.Default
		}
	}

	return Args{values: values}, nil
}

func (s *Sample) arity() string {
	req, total := s.Required(), len(s.Params)
	if req == total {
		return fmt.Sprintf("%d argument(s)", total)
	}
	return fmt.Sprintf("%d to %d arguments", req, total)
}
