package decompose

import (
	"github.com/tordrt/relnorm/internal/fd"
	"github.com/tordrt/relnorm/internal/relation"
)

// projectFDs projects an FD list onto a subset of attributes. For every
// non-empty proper subset of the target attributes the closure is computed
// under the pre-projection FDs and intersected with the target set; whatever
// remains beyond the determinant itself is a projected FD. Projected FDs
// sharing a determinant are merged by widening into a replacement value
// rather than adding a duplicate-determinant entry.
//
// This enumerates every determinant subset and is therefore exponential in
// the attribute count. Fragments produced by decomposition are small, which
// is the only reason this stays tractable; it is the engine's scalability
// limit for wide relations.
func projectFDs(attrs []relation.Attribute, fds []relation.FunctionalDependency) []relation.FunctionalDependency {
	target := relation.NewAttributeSet(attrs...)
	sorted := target.Sorted()

	var projected []relation.FunctionalDependency
	for size := 1; size < len(sorted); size++ {
		fd.ForEachCombination(sorted, size, func(combo []relation.Attribute) {
			determinant := relation.NewAttributeSet(combo...)
			closure := fd.Closure(determinant, fds)
			dependent := closure.Intersect(target).Diff(determinant)
			if dependent.Len() == 0 {
				return
			}

			for i, existing := range projected {
				if existing.Determinant.Equal(determinant) && existing.Dependent.SubsetOf(dependent) {
					projected[i] = existing.WithDependent(existing.Dependent.Union(dependent))
					return
				}
			}
			projected = append(projected, relation.FunctionalDependency{
				Determinant: determinant,
				Dependent:   dependent,
			})
		})
	}

	return projected
}

// checkPreservation pools the FDs of every final fragment and tests each
// original FD against the pool: the FD is preserved when its dependent is in
// the closure of its determinant under the pooled FDs. Evaluated once per
// decomposition, against the final fragment set only.
func checkPreservation(originalFDs []relation.FunctionalDependency, fragments []*relation.Relation) (preserved, lost []relation.FunctionalDependency) {
	var pool []relation.FunctionalDependency
	for _, frag := range fragments {
		pool = append(pool, frag.FDs...)
	}

	for _, f := range originalFDs {
		if f.Dependent.SubsetOf(fd.Closure(f.Determinant, pool)) {
			preserved = append(preserved, f)
		} else {
			lost = append(lost, f)
		}
	}
	return preserved, lost
}
