package relation

import "errors"

// Sentinel errors for the normalization engine: malformed input (rejected at
// construction time) and the iteration guards on the decomposition
// work-lists. "Relation already satisfies the target form" is a normal
// result, never an error.
var (
	// ErrInvalidRelation is returned for relations with empty or duplicate
	// attribute names.
	ErrInvalidRelation = errors.New("relnorm: invalid relation definition")

	// ErrInvalidDependency is returned for dependencies with an empty side
	// or a side referencing attributes outside the relation.
	ErrInvalidDependency = errors.New("relnorm: invalid dependency")

	// ErrInvariant is returned when a decomposition work-list exceeds its
	// iteration bound. Splits strictly shrink the violation set, so hitting
	// the bound means an internal invariant was broken.
	ErrInvariant = errors.New("relnorm: internal invariant violated")
)
