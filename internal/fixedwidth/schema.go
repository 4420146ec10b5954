package fixedwidth

import (
	"github.com/rotisserie/eris"
)

// Field defines one positional column as a half-open [Start, End) byte span
// within a line. Offsets are 0-indexed; columns not covered by any field are
// skipped implicitly.
type Field struct {
	Name  string
	Start int
	End   int
}

// Schema is an ordered set of positional fields.
type Schema []Field

// Validate checks that every field has a well-formed span and a unique name.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		if f.Name == "" {
			return eris.New("fixedwidth: field with empty name")
		}
		if _, dup := seen[f.Name]; dup {
			return eris.Errorf("fixedwidth: duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Start < 0 || f.End <= f.Start {
			return eris.Errorf("fixedwidth: field %q has invalid span [%d, %d)", f.Name, f.Start, f.End)
		}
	}
	return nil
}

// index maps field names to schema positions for O(1) record access.
func (s Schema) index() map[string]int {
	idx := make(map[string]int, len(s))
	for i, f := range s {
		idx[f.Name] = i
	}
	return idx
}
