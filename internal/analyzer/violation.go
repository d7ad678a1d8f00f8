package analyzer

import (
	"fmt"

	"github.com/tordrt/relnorm/internal/relation"
)

// ViolationKind tags the normal-form condition a violation breaks, so
// consumers can dispatch on the kind instead of matching message text.
type ViolationKind int

const (
	// NoAttributes: the relation declares no attributes (1NF).
	NoAttributes ViolationKind = iota
	// NoCandidateKey: no non-empty candidate key exists (1NF).
	NoCandidateKey
	// PartialDependency: a non-prime attribute depends on a proper part of
	// a candidate key (2NF).
	PartialDependency
	// TransitiveDependency: a non-superkey determinant reaches a non-prime
	// attribute (3NF).
	TransitiveDependency
	// BCNFViolation: a non-trivial FD has a non-superkey determinant.
	BCNFViolation
	// NontrivialMVD: a non-trivial MVD has a non-superkey determinant (4NF).
	NontrivialMVD
)

// Violation is one normal-form violation, carrying the attribute sets
// involved. Rendering to prose happens only here, at the reporting boundary,
// and is deterministic because attribute sets render in sorted name order.
type Violation struct {
	Kind        ViolationKind
	Determinant relation.AttributeSet
	Dependent   relation.AttributeSet

	// Key is the candidate key a partial dependency is measured against;
	// nil for the other kinds.
	Key relation.AttributeSet
}

func (v Violation) String() string {
	switch v.Kind {
	case NoAttributes:
		return "relation has no attributes"
	case NoCandidateKey:
		return "relation has no candidate key"
	case PartialDependency:
		return fmt.Sprintf("partial dependency %s → %s (determinant is a proper part of key %s)",
			v.Determinant, v.Dependent, v.Key)
	case TransitiveDependency:
		return fmt.Sprintf("3NF violation %s → %s (determinant is not a superkey, dependent attributes are non-prime)",
			v.Determinant, v.Dependent)
	case BCNFViolation:
		return fmt.Sprintf("BCNF violation %s → %s (determinant is not a superkey)",
			v.Determinant, v.Dependent)
	case NontrivialMVD:
		return fmt.Sprintf("4NF violation %s →→ %s (non-trivial multivalued dependency, determinant is not a superkey)",
			v.Determinant, v.Dependent)
	default:
		return "unknown violation"
	}
}

// renderAll formats a violation list.
func renderAll(violations []Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.String()
	}
	return out
}
