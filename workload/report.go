package workload

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Report summarizes one harness run. It is written as YAML rather than
// JSON: a hand-editable, commentable format for something a human reviews
// after the run, not a wire payload.
type Report struct {
	Mode         string        `yaml:"mode"`
	Workers      int           `yaml:"workers"`
	KeyRange     int           `yaml:"keyRange"`
	Inserts      int64         `yaml:"inserts"`
	Removes      int64         `yaml:"removes"`
	Searches     int64         `yaml:"searches"`
	FinalCount   int           `yaml:"finalCount"`
	Sorted       bool          `yaml:"sorted"`
	MaxLevelSeen int           `yaml:"maxLevelSeen"`
	Elapsed      time.Duration `yaml:"elapsed"`
}

// WriteYAML marshals the report and writes it to path.
func (r Report) WriteYAML(path string) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
