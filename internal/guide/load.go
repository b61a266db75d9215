package guide

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a guide from a YAML file, layered over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Guide, error) {
	g := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return g, nil
		}
		return nil, fmt.Errorf("failed to read style guide: %w", err)
	}

	// The guide lives under the top-level "guide" key of .docstyle.yaml so the
	// same file can also carry tool configuration.
	var wrapper struct {
		Guide *Guide `yaml:"guide"`
	}
	wrapper.Guide = g
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse style guide: %w", err)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid style guide in %s: %w", path, err)
	}
	return g, nil
}
