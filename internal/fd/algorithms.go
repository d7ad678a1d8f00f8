// Package fd implements the dependency algorithms the analyzer and the
// decomposer are built on: attribute-set closure, superkey testing,
// candidate-key enumeration, and minimal cover computation. Everything here
// is a pure function over attribute sets and dependency lists.
package fd

import (
	"github.com/tordrt/relnorm/internal/relation"
)

// Closure computes the closure of the given attribute set under the FDs:
// the maximal set of attributes derivable by repeated FD application.
// Standard fixpoint driven by a changed flag; each pass either grows the
// result or terminates, and the result is bounded by the full attribute
// universe, so the loop always stops. Idempotent: Closure(Closure(X,F),F)
// equals Closure(X,F).
func Closure(attrs relation.AttributeSet, fds []relation.FunctionalDependency) relation.AttributeSet {
	closure := attrs.Clone()

	changed := true
	for changed {
		changed = false
		for _, fd := range fds {
			if !fd.Determinant.SubsetOf(closure) {
				continue
			}
			for _, a := range fd.Dependent {
				if !closure.Contains(a.Name) {
					closure.Add(a)
					changed = true
				}
			}
		}
	}

	return closure
}

// IsSuperkey reports whether the attribute set determines every attribute of
// the relation.
func IsSuperkey(attrs relation.AttributeSet, rel *relation.Relation) bool {
	return Closure(attrs, rel.FDs).Equal(rel.AttributeSet())
}

// FindCandidateKeys enumerates the candidate keys of the relation without
// scanning every attribute subset. Attributes are partitioned by where they
// appear across the FDs: attributes appearing only on the left (or in no FD
// at all) can never be derived, so every key must contain them. If that
// must-have core is already a superkey it is the unique candidate key;
// otherwise keys are found by extending the core with increasing-size
// subsets of the attributes that appear on both sides.
//
// The returned keys are minimal; no key is a superset of another. Order
// follows the enumeration (smaller extensions first, sorted-name order
// within a size), but callers should treat the result as a set of sets.
func FindCandidateKeys(rel *relation.Relation) []relation.AttributeSet {
	all := rel.AttributeSet()

	leftOnly := make(relation.AttributeSet)
	rightOnly := make(relation.AttributeSet)
	for _, fd := range rel.FDs {
		for _, a := range fd.Determinant {
			leftOnly.Add(a)
		}
		for _, a := range fd.Dependent {
			rightOnly.Add(a)
		}
	}
	bothSides := leftOnly.Intersect(rightOnly)
	leftOnly = leftOnly.Diff(bothSides)
	rightOnly = rightOnly.Diff(bothSides)

	notInFDs := all.Diff(leftOnly).Diff(rightOnly).Diff(bothSides)
	mustHave := leftOnly.Union(notInFDs)

	if IsSuperkey(mustHave, rel) {
		return []relation.AttributeSet{mustHave}
	}

	var keys []relation.AttributeSet
	candidates := bothSides.Sorted()
	for size := 0; size <= len(candidates); size++ {
		ForEachCombination(candidates, size, func(combo []relation.Attribute) {
			candidate := mustHave.Union(relation.NewAttributeSet(combo...))
			if !IsSuperkey(candidate, rel) {
				return
			}
			keys = insertMinimal(keys, candidate)
		})
	}

	return keys
}

// FindAllKeys is the brute-force variant: it enumerates every attribute
// subset by increasing size and keeps the minimal superkeys. Exponential in
// the attribute count, so it is only suitable for small relations; it serves
// as a correctness cross-check for FindCandidateKeys and as the fallback for
// relations without FDs, where the full attribute set is the only key.
func FindAllKeys(rel *relation.Relation) []relation.AttributeSet {
	all := rel.AttributeSet()
	attrs := all.Sorted()

	var keys []relation.AttributeSet
	for size := 1; size <= len(attrs); size++ {
		ForEachCombination(attrs, size, func(combo []relation.Attribute) {
			candidate := relation.NewAttributeSet(combo...)
			if !IsSuperkey(candidate, rel) {
				return
			}
			keys = insertMinimal(keys, candidate)
		})
	}

	if len(keys) == 0 {
		return []relation.AttributeSet{all}
	}
	return keys
}

// insertMinimal adds candidate to keys while keeping the list minimal in
// both directions: the candidate is dropped if it contains an existing key,
// and existing keys that contain the candidate are pruned.
func insertMinimal(keys []relation.AttributeSet, candidate relation.AttributeSet) []relation.AttributeSet {
	for _, k := range keys {
		if k.SubsetOf(candidate) {
			return keys
		}
	}
	kept := keys[:0]
	for _, k := range keys {
		if !candidate.SubsetOf(k) {
			kept = append(kept, k)
		}
	}
	return append(kept, candidate)
}

// MinimalCover canonicalizes an FD list into an equivalent redundancy-free
// cover in three stages: split right-hand sides into single attributes, drop
// extraneous determinant attributes (testing each reduction against the full
// split set), then drop FDs whose dependent is already derivable from the
// remaining ones. Stage order matters; ties between equally removable
// determinant attributes are broken by sorted attribute name.
func MinimalCover(fds []relation.FunctionalDependency) []relation.FunctionalDependency {
	// Stage 1: singleton right-hand sides.
	var split []relation.FunctionalDependency
	for _, fd := range fds {
		for _, a := range fd.Dependent.Sorted() {
			split = append(split, relation.FunctionalDependency{
				Determinant: fd.Determinant.Clone(),
				Dependent:   relation.NewAttributeSet(a),
			})
		}
	}

	// Stage 2: remove extraneous determinant attributes. Each reduction is
	// tested against the full split set, and a successful reduction sticks
	// for the following attempts on the same FD.
	reduced := make([]relation.FunctionalDependency, 0, len(split))
	for _, fd := range split {
		if fd.Determinant.Len() == 1 {
			reduced = append(reduced, fd)
			continue
		}

		minimal := fd.Determinant.Clone()
		for _, a := range fd.Determinant.Sorted() {
			test := minimal.Diff(relation.NewAttributeSet(a))
			if test.Len() == 0 {
				continue
			}
			if fd.Dependent.SubsetOf(Closure(test, split)) {
				minimal = test
			}
		}

		reduced = append(reduced, relation.FunctionalDependency{
			Determinant: minimal,
			Dependent:   fd.Dependent,
		})
	}

	// Stage 3: remove derivable FDs. Each FD is tested against all other
	// reduced FDs, including ones already rejected.
	var minimal []relation.FunctionalDependency
	for i, fd := range reduced {
		others := make([]relation.FunctionalDependency, 0, len(reduced)-1)
		others = append(others, reduced[:i]...)
		others = append(others, reduced[i+1:]...)

		if !fd.Dependent.SubsetOf(Closure(fd.Determinant, others)) {
			minimal = append(minimal, fd)
		}
	}

	return minimal
}

// ForEachCombination calls fn with every size-k combination of attrs, in
// lexicographic order over the (already sorted) input slice. The combo slice
// is reused between calls; callers must copy it if they retain it. Key
// enumeration and FD projection are both driven by this.
func ForEachCombination(attrs []relation.Attribute, k int, fn func([]relation.Attribute)) {
	if k < 0 || k > len(attrs) {
		return
	}
	combo := make([]relation.Attribute, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			fn(combo)
			return
		}
		for i := start; i <= len(attrs)-(k-depth); i++ {
			combo[depth] = attrs[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}
