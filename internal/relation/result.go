package relation

import (
	"fmt"
	"strings"
)

// DecompositionStep records one decomposition event: the relation that was
// split, the fragments it produced, and the dependency whose violation
// triggered the split. Steps accumulate in order across the whole run; the
// list is an audit trail, not a tree.
type DecompositionStep struct {
	Source    *Relation
	Resulting []*Relation
	Reason    string

	// ViolatedFD / ViolatedMVD identify the trigger when the step removed a
	// specific violation. Both are nil for synthesis-style steps.
	ViolatedFD  *FunctionalDependency
	ViolatedMVD *MultivaluedDependency
}

func (s DecompositionStep) String() string {
	names := make([]string, len(s.Resulting))
	for i, r := range s.Resulting {
		names[i] = r.Name
	}
	return fmt.Sprintf("%s → [%s]: %s", s.Source.Name, strings.Join(names, ", "), s.Reason)
}

// NormalizationResult aggregates the outcome of a decomposition run.
// Preserved and Lost are computed once, against the final fragment set.
type NormalizationResult struct {
	OriginalForm NormalForm
	TargetForm   NormalForm
	Original     *Relation
	Decomposed   []*Relation
	Steps        []DecompositionStep
	Preserved    []FunctionalDependency
	Lost         []FunctionalDependency
}

// PreservesDependencies reports whether every original FD remains derivable
// from the union of the fragments' projected FDs.
func (r *NormalizationResult) PreservesDependencies() bool {
	return len(r.Lost) == 0
}
