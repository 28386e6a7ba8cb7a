// Package tuning holds the run knobs loaded from tuning.yaml.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	FuelSafetyBuffer  int `yaml:"fuel_safety_buffer"`
	RefuelMaxAttempts int `yaml:"refuel_max_attempts"`

	MoveMaxRetries     int `yaml:"move_max_retries"`
	MoveRetryBackoffMs int `yaml:"move_retry_backoff_ms"`

	Harvest Harvest `yaml:"harvest"`
}

type Harvest struct {
	Allowlist      []string `yaml:"allowlist"`
	IncludeKeyword string   `yaml:"include_keyword"`
	ExcludeKeyword string   `yaml:"exclude_keyword"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:    "1.0",
		FuelSafetyBuffer:   20,
		RefuelMaxAttempts:  128,
		MoveMaxRetries:     64,
		MoveRetryBackoffMs: 500,
		Harvest: Harvest{
			Allowlist:      []string{"crop:melon", "crop:pumpkin"},
			IncludeKeyword: "melon",
			ExcludeKeyword: "stem",
		},
	}
}

// Load reads tuning from path, filling unset knobs with defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
