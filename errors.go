package relnorm

import (
	"errors"

	"github.com/tordrt/relnorm/internal/relation"
)

// Sentinel errors returned by the engine. Wrap-aware: test with errors.Is or
// the helpers below.
var (
	// ErrInvalidRelation reports a malformed relation definition, such as
	// duplicate attribute names or a dependency over unknown attributes.
	ErrInvalidRelation = relation.ErrInvalidRelation

	// ErrInvalidDependency reports a malformed dependency, such as an empty
	// determinant or dependent side.
	ErrInvalidDependency = relation.ErrInvalidDependency

	// ErrInvariant reports an internal invariant failure during
	// decomposition, such as a split that stops making progress.
	ErrInvariant = relation.ErrInvariant

	// ErrUnsupportedTarget reports a Normalize target outside
	// SecondNF..FourthNF.
	ErrUnsupportedTarget = errors.New("relnorm: unsupported target normal form")
)

// IsInvalidRelationErr reports whether err is an invalid-relation error.
func IsInvalidRelationErr(err error) bool {
	return errors.Is(err, ErrInvalidRelation)
}

// IsInvalidDependencyErr reports whether err is an invalid-dependency error.
func IsInvalidDependencyErr(err error) bool {
	return errors.Is(err, ErrInvalidDependency)
}

// IsInvariantErr reports whether err is an internal invariant failure.
func IsInvariantErr(err error) bool {
	return errors.Is(err, ErrInvariant)
}
