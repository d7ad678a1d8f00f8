// Package decompose implements the four decomposition procedures: recursive
// partial-dependency elimination for 2NF, the synthesis algorithm for 3NF,
// and work-list splitting for BCNF and 4NF. Each procedure takes a relation
// and produces a NormalizationResult holding the final fragments, the
// step-by-step trace, and the dependency-preservation analysis. Input
// relations are never mutated; every fragment is a fresh Relation.
package decompose

import (
	"fmt"

	"github.com/tordrt/relnorm/internal/analyzer"
	"github.com/tordrt/relnorm/internal/fd"
	"github.com/tordrt/relnorm/internal/relation"
)

// fuel bounds the number of work-list iterations a decomposition may take.
// Every split strictly reduces the remaining violations or the fragment
// size, so a well-behaved run stays far below the bound; exceeding it means
// an invariant broke and the run fails with ErrInvariant instead of looping.
func fuel(rel *relation.Relation) int {
	n := 4 * (len(rel.Attributes) + 1) * (len(rel.FDs) + len(rel.MVDs) + 2)
	if n < 64 {
		return 64
	}
	return n
}

func noOpResult(rel *relation.Relation, original, target relation.NormalForm) *relation.NormalizationResult {
	return &relation.NormalizationResult{
		OriginalForm: original,
		TargetForm:   target,
		Original:     rel,
		Decomposed:   []*relation.Relation{rel},
		Preserved:    rel.FDs,
	}
}

// To2NF decomposes a relation into second normal form by repeatedly
// splitting off partial dependencies. A work-list starts with the original
// relation; each popped relation is re-analyzed (keys and the prime
// partition are recomputed per fragment), and the first partial dependency
// found triggers a split into determinant∪dependent and the remaining
// attributes. Both fragments go back on the list, since a fragment of a
// relation with a composite key of three or more attributes can itself
// still hold partial dependencies.
func To2NF(rel *relation.Relation) (*relation.NormalizationResult, error) {
	originalForm, _ := analyzer.New(rel).DetermineNormalForm()
	if originalForm >= relation.SecondNF {
		return noOpResult(rel, originalForm, relation.SecondNF), nil
	}

	var (
		steps    []relation.DecompositionStep
		finished []*relation.Relation
	)
	worklist := []*relation.Relation{rel}
	budget := fuel(rel)

	for len(worklist) > 0 {
		if budget--; budget < 0 {
			return nil, fmt.Errorf("%w: 2NF work-list did not drain for %s", relation.ErrInvariant, rel.Name)
		}

		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		a := analyzer.New(current)

		violated, _, found := firstPartialDependency(current, a)
		if !found {
			finished = append(finished, current)
			continue
		}

		all := current.AttributeSet()
		r1 := fragment(current.Name+"_partial", violated.Determinant.Union(violated.Dependent), current.FDs)
		r2 := fragment(current.Name+"_main", all.Diff(violated.Dependent), current.FDs)

		fdCopy := violated
		steps = append(steps, relation.DecompositionStep{
			Source:     current,
			Resulting:  []*relation.Relation{r1, r2},
			Reason:     fmt.Sprintf("eliminating partial dependency %s", violated),
			ViolatedFD: &fdCopy,
		})
		worklist = append(worklist, r1, r2)
	}

	preserved, lost := checkPreservation(rel.FDs, finished)
	return &relation.NormalizationResult{
		OriginalForm: originalForm,
		TargetForm:   relation.SecondNF,
		Original:     rel,
		Decomposed:   finished,
		Steps:        steps,
		Preserved:    preserved,
		Lost:         lost,
	}, nil
}

// firstPartialDependency returns the first FD of the relation whose
// dependent holds a non-prime attribute and whose determinant is a proper
// subset of some candidate key, together with that key.
func firstPartialDependency(rel *relation.Relation, a *analyzer.Analyzer) (relation.FunctionalDependency, relation.AttributeSet, bool) {
	for _, f := range rel.FDs {
		if f.Dependent.Intersect(a.NonPrimeAttributes).Len() == 0 {
			continue
		}
		for _, key := range a.CandidateKeys {
			if f.IsPartialOf(key) {
				return f, key, true
			}
		}
	}
	return relation.FunctionalDependency{}, nil, false
}

// To3NF decomposes a relation into third normal form with the synthesis
// algorithm: compute a minimal cover, group its FDs by determinant, and
// build one fragment per group from the determinant plus all grouped
// dependents. If no fragment contains a candidate key of the original
// relation, a fragment holding one candidate key is appended to keep the
// join lossless. Fragments whose attribute set is contained in another
// fragment's are dropped. Synthesis guarantees dependency preservation, and
// the whole run is recorded as a single step.
func To3NF(rel *relation.Relation) (*relation.NormalizationResult, error) {
	a := analyzer.New(rel)
	originalForm, _ := a.DetermineNormalForm()
	if originalForm >= relation.ThirdNF {
		return noOpResult(rel, originalForm, relation.ThirdNF), nil
	}

	cover := fd.MinimalCover(rel.FDs)

	// Group cover FDs by determinant, keeping first-seen order.
	type group struct {
		determinant relation.AttributeSet
		dependents  relation.AttributeSet
	}
	var groups []*group
	bySignature := make(map[string]*group)
	for _, f := range cover {
		sig := f.Determinant.String()
		g, ok := bySignature[sig]
		if !ok {
			g = &group{determinant: f.Determinant, dependents: make(relation.AttributeSet)}
			bySignature[sig] = g
			groups = append(groups, g)
		}
		g.dependents = g.dependents.Union(f.Dependent)
	}

	var fragments []*relation.Relation
	for _, g := range groups {
		attrs := g.determinant.Union(g.dependents)
		name := fmt.Sprintf("%s_3nf_%d", rel.Name, len(fragments)+1)
		fragments = append(fragments, fragment(name, attrs, cover))
	}

	// Losslessness: some fragment must contain a candidate key.
	hasKey := false
	for _, frag := range fragments {
		fragAttrs := frag.AttributeSet()
		for _, key := range a.CandidateKeys {
			if key.SubsetOf(fragAttrs) {
				hasKey = true
				break
			}
		}
		if hasKey {
			break
		}
	}
	if !hasKey && len(a.CandidateKeys) > 0 {
		fragments = append(fragments, fragment(rel.Name+"_key", a.CandidateKeys[0], rel.FDs))
	}

	fragments = dropContainedFragments(fragments)

	steps := []relation.DecompositionStep{{
		Source:    rel,
		Resulting: fragments,
		Reason:    "3NF synthesis from the minimal cover",
	}}

	preserved, lost := checkPreservation(rel.FDs, fragments)
	return &relation.NormalizationResult{
		OriginalForm: originalForm,
		TargetForm:   relation.ThirdNF,
		Original:     rel,
		Decomposed:   fragments,
		Steps:        steps,
		Preserved:    preserved,
		Lost:         lost,
	}, nil
}

// dropContainedFragments removes fragments whose attribute set is a subset
// of another fragment's. Of two fragments with identical attribute sets the
// first survives.
func dropContainedFragments(fragments []*relation.Relation) []*relation.Relation {
	sets := make([]relation.AttributeSet, len(fragments))
	for i, frag := range fragments {
		sets[i] = frag.AttributeSet()
	}

	var kept []*relation.Relation
	for i, frag := range fragments {
		redundant := false
		for j := range fragments {
			if i == j || !sets[i].SubsetOf(sets[j]) {
				continue
			}
			if !sets[i].Equal(sets[j]) || j < i {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, frag)
		}
	}
	return kept
}

// ToBCNF decomposes a relation into Boyce-Codd normal form. Each relation
// popped from the work-list is scanned for the first non-trivial FD whose
// determinant is not a superkey; the split produces determinant∪dependent
// and determinant∪rest, both re-queued. BCNF decomposition cannot always
// preserve dependencies; sacrificed FDs show up in the result's Lost list,
// which is expected and not an error.
func ToBCNF(rel *relation.Relation) (*relation.NormalizationResult, error) {
	originalForm, _ := analyzer.New(rel).DetermineNormalForm()
	if originalForm >= relation.BCNF {
		return noOpResult(rel, originalForm, relation.BCNF), nil
	}

	var (
		steps    []relation.DecompositionStep
		finished []*relation.Relation
	)
	worklist := []*relation.Relation{rel}
	budget := fuel(rel)

	for len(worklist) > 0 {
		if budget--; budget < 0 {
			return nil, fmt.Errorf("%w: BCNF work-list did not drain for %s", relation.ErrInvariant, rel.Name)
		}

		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		violated, found := firstBCNFViolation(current)
		if !found {
			finished = append(finished, current)
			continue
		}

		all := current.AttributeSet()
		r1 := fragment(
			fmt.Sprintf("%s_bcnf1_%d", current.Name, len(steps)),
			violated.Determinant.Union(violated.Dependent),
			current.FDs,
		)
		r2 := fragment(
			fmt.Sprintf("%s_bcnf2_%d", current.Name, len(steps)),
			violated.Determinant.Union(all.Diff(violated.Dependent)),
			current.FDs,
		)

		fdCopy := violated
		steps = append(steps, relation.DecompositionStep{
			Source:     current,
			Resulting:  []*relation.Relation{r1, r2},
			Reason:     fmt.Sprintf("eliminating BCNF violation %s", violated),
			ViolatedFD: &fdCopy,
		})
		worklist = append(worklist, r1, r2)
	}

	preserved, lost := checkPreservation(rel.FDs, finished)
	return &relation.NormalizationResult{
		OriginalForm: originalForm,
		TargetForm:   relation.BCNF,
		Original:     rel,
		Decomposed:   finished,
		Steps:        steps,
		Preserved:    preserved,
		Lost:         lost,
	}, nil
}

// firstBCNFViolation returns the first non-trivial FD whose determinant is
// not a superkey of the relation.
func firstBCNFViolation(rel *relation.Relation) (relation.FunctionalDependency, bool) {
	for _, f := range rel.FDs {
		if f.IsTrivial() {
			continue
		}
		if !fd.IsSuperkey(f.Determinant, rel) {
			return f, true
		}
	}
	return relation.FunctionalDependency{}, false
}

// To4NF decomposes a relation into fourth normal form. The relation is
// first fully decomposed to BCNF; when the original declares no MVDs that
// result already satisfies 4NF and is returned relabeled. Otherwise every
// BCNF fragment is re-examined against the original relation's MVDs,
// restricted to the fragment's attributes: an MVD applies when its
// determinant is fully contained in the fragment, and it violates 4NF there
// when both the restricted dependent part and the remaining independent
// part are non-empty while the determinant is not a superkey of the
// fragment. Violations split the fragment and re-queue both halves.
func To4NF(rel *relation.Relation) (*relation.NormalizationResult, error) {
	bcnfResult, err := ToBCNF(rel)
	if err != nil {
		return nil, err
	}

	originalForm, _ := analyzer.New(rel).DetermineNormalForm()

	if len(rel.MVDs) == 0 {
		return &relation.NormalizationResult{
			OriginalForm: originalForm,
			TargetForm:   relation.FourthNF,
			Original:     rel,
			Decomposed:   bcnfResult.Decomposed,
			Steps:        bcnfResult.Steps,
			Preserved:    bcnfResult.Preserved,
			Lost:         bcnfResult.Lost,
		}, nil
	}

	steps := append([]relation.DecompositionStep(nil), bcnfResult.Steps...)
	queue := append([]*relation.Relation(nil), bcnfResult.Decomposed...)
	var finished []*relation.Relation
	budget := fuel(rel)

	for len(queue) > 0 {
		if budget--; budget < 0 {
			return nil, fmt.Errorf("%w: 4NF work-list did not drain for %s", relation.ErrInvariant, rel.Name)
		}

		current := queue[0]
		queue = queue[1:]
		currentAttrs := current.AttributeSet()

		violated, found := firstMVDViolation(rel.MVDs, current, currentAttrs)
		if !found {
			finished = append(finished, current)
			continue
		}

		dependentInRel := violated.Dependent.Intersect(currentAttrs)
		r1 := fragment(
			fmt.Sprintf("%s_4nf_%d", current.Name, len(finished)),
			violated.Determinant.Union(dependentInRel),
			current.FDs,
		)
		// The second fragment strips the MVD's full dependent set, not just
		// the part present in this fragment.
		r2 := fragment(
			fmt.Sprintf("%s_4nf_%d", current.Name, len(finished)+1),
			violated.Determinant.Union(currentAttrs.Diff(violated.Dependent)),
			current.FDs,
		)

		mvdCopy := violated
		steps = append(steps, relation.DecompositionStep{
			Source:      current,
			Resulting:   []*relation.Relation{r1, r2},
			Reason:      fmt.Sprintf("eliminating multivalued dependency %s", violated),
			ViolatedMVD: &mvdCopy,
		})
		queue = append(queue, r1, r2)
	}

	preserved, lost := checkPreservation(rel.FDs, finished)
	return &relation.NormalizationResult{
		OriginalForm: originalForm,
		TargetForm:   relation.FourthNF,
		Original:     rel,
		Decomposed:   finished,
		Steps:        steps,
		Preserved:    preserved,
		Lost:         lost,
	}, nil
}

// firstMVDViolation returns the first of the original MVDs that is a live,
// non-trivial violation inside the given fragment.
func firstMVDViolation(mvds []relation.MultivaluedDependency, current *relation.Relation, currentAttrs relation.AttributeSet) (relation.MultivaluedDependency, bool) {
	for _, mvd := range mvds {
		if !mvd.Determinant.SubsetOf(currentAttrs) {
			continue
		}
		dependentInRel := mvd.Dependent.Intersect(currentAttrs)
		independentInRel := currentAttrs.Diff(mvd.Determinant).Diff(dependentInRel)
		if dependentInRel.Len() == 0 || independentInRel.Len() == 0 {
			continue
		}
		if !fd.IsSuperkey(mvd.Determinant, current) {
			return mvd, true
		}
	}
	return relation.MultivaluedDependency{}, false
}

// fragment builds a decomposition fragment: the attribute set in sorted
// order with the FDs of the source relation projected onto it. Fragments
// never carry MVDs; 4NF re-examines the original relation's MVD list
// instead.
func fragment(name string, attrs relation.AttributeSet, fds []relation.FunctionalDependency) *relation.Relation {
	sorted := attrs.Sorted()
	return &relation.Relation{
		Name:       name,
		Attributes: sorted,
		FDs:        projectFDs(sorted, fds),
	}
}
