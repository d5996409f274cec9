// Package workload describes a concurrent exercise of a skiplist.OrderedMap:
// a worker count, a key range, an operation mix, and the parameters to build
// the map under test with. A plan is read as JSON and validated against an
// embedded schema before anything is spawned: compile the schema, validate
// the raw document against it, only then decode it into a Plan.
package workload

import (
	"encoding/json"
	"fmt"
	"os"
)

// Mix is the relative weight of each operation a worker performs. Weights
// are relative, not percentages; a zero-value Mix means "insert only".
type Mix struct {
	Insert int `json:"insert" yaml:"insert"`
	Remove int `json:"remove" yaml:"remove"`
	Search int `json:"search" yaml:"search"`
}

// total returns the sum of the mix's weights, or 1 (insert-only) if every
// weight is zero.
func (m Mix) total() int {
	sum := m.Insert + m.Remove + m.Search
	if sum == 0 {
		return 1
	}
	return sum
}

// Plan is a workload plan: how many workers to run, over what key range,
// against a map built with which skip-list parameters.
type Plan struct {
	Workers     int     `json:"workers" yaml:"workers"`
	KeyRange    int     `json:"keyRange" yaml:"keyRange"`
	MaxLevel    int     `json:"maxLevel" yaml:"maxLevel"`
	Probability float64 `json:"probability" yaml:"probability"`
	Seed        int64   `json:"seed" yaml:"seed"`
	Mix         Mix     `json:"mix" yaml:"mix"`
}

// Pick returns which operation a worker should perform next, given a
// non-negative uniform draw, which it reduces modulo Mix.total(). An
// all-zero Mix always picks insert.
func (p Plan) Pick(draw int) string {
	if p.Mix.Insert == 0 && p.Mix.Remove == 0 && p.Mix.Search == 0 {
		return "insert"
	}
	draw %= p.Mix.total()
	switch {
	case draw < p.Mix.Insert:
		return "insert"
	case draw < p.Mix.Insert+p.Mix.Remove:
		return "remove"
	default:
		return "search"
	}
}

// Load reads a workload plan from path, validates it against the embedded
// JSON schema, and unmarshals it into a Plan. An invalid plan is rejected
// here, before any worker is spawned.
func Load(path string) (Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("reading workload plan: %w", err)
	}

	schema, err := compilePlanSchema()
	if err != nil {
		return Plan{}, fmt.Errorf("compiling workload-plan schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Plan{}, fmt.Errorf("parsing workload plan: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Plan{}, fmt.Errorf("workload plan failed schema validation: %w", err)
	}

	var plan Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return Plan{}, fmt.Errorf("decoding workload plan: %w", err)
	}
	return plan, nil
}
