package transform

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed states.yaml
var statesYAML []byte

var stateNames map[int]string

func init() {
	if err := yaml.Unmarshal(statesYAML, &stateNames); err != nil {
		panic("transform: parse embedded state table: " + err.Error())
	}
}

// StateName resolves a numeric state FIPS code to its canonical name. Codes
// outside the 50-states-plus-DC table (territories, multi-state aggregates)
// return ok=false; callers keep the row and leave the name unresolved.
func StateName(code int) (string, bool) {
	name, ok := stateNames[code]
	return name, ok
}
