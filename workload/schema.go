package workload

import (
	"bytes"
	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var planSchemaJSON []byte

func compilePlanSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("workload-plan.json", bytes.NewReader(planSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile("workload-plan.json")
}
