package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen11/gcp-samples/internal/app/scenario"
	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// batchFile is the YAML shape of a batch:
//
//	invocations:
//	  - sample: list_buckets
//	  - sample: get_secret
//	    args: [my-project, my-secret]
type batchFile struct {
	Invocations []ports.Invocation `yaml:"invocations"`
}

// LoadBatch reads a batch file. Unknown keys are rejected so a typo does
// not silently drop arguments.
func LoadBatch(path string) ([]ports.Invocation, error) {
	var f batchFile
	if err := decodeFile(path, &f); err != nil {
		return nil, err
	}
	if len(f.Invocations) == 0 {
		return nil, domain.NewValidationError("invocations", domain.MsgRequired)
	}
	for i, inv := range f.Invocations {
		if inv.Sample == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("invocations[%d].sample", i), domain.MsgRequired)
		}
	}
	return f.Invocations, nil
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (ports.Scenario, error) {
	var sc ports.Scenario
	if err := decodeFile(path, &sc); err != nil {
		return ports.Scenario{}, err
	}
	if err := scenario.Validate(sc); err != nil {
		return ports.Scenario{}, err
	}
	return sc, nil
}

func decodeFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("parsing %s: empty file: %w", path, domain.ErrValidation)
		}
		return fmt.Errorf("parsing %s: %w: %w", path, domain.ErrValidation, err)
	}
	return nil
}
