// Package analyzer classifies a relation's normal form. An Analyzer is
// constructed from one relation and eagerly computes its candidate keys and
// the prime/non-prime attribute partition; the Check* methods then test each
// normal form's defining condition, collecting structured violations.
package analyzer

import (
	"github.com/tordrt/relnorm/internal/fd"
	"github.com/tordrt/relnorm/internal/relation"
)

// Analyzer holds the per-relation state the normal-form checks share.
type Analyzer struct {
	Relation           *relation.Relation
	CandidateKeys      []relation.AttributeSet
	PrimeAttributes    relation.AttributeSet
	NonPrimeAttributes relation.AttributeSet
}

// New builds an analyzer for the relation, computing candidate keys, prime
// attributes (the union of all candidate keys), and their complement.
func New(rel *relation.Relation) *Analyzer {
	keys := fd.FindCandidateKeys(rel)

	prime := make(relation.AttributeSet)
	for _, key := range keys {
		prime = prime.Union(key)
	}

	return &Analyzer{
		Relation:           rel,
		CandidateKeys:      keys,
		PrimeAttributes:    prime,
		NonPrimeAttributes: rel.AttributeSet().Diff(prime),
	}
}

// Check1NF tests the first normal form. Attribute values are atomic by
// construction in this model, so 1NF reduces to well-formedness: the
// relation has attributes and at least one non-empty candidate key.
func (a *Analyzer) Check1NF() (bool, []Violation) {
	var violations []Violation

	if len(a.Relation.Attributes) == 0 {
		violations = append(violations, Violation{Kind: NoAttributes})
	}

	hasKey := false
	for _, key := range a.CandidateKeys {
		if key.Len() > 0 {
			hasKey = true
			break
		}
	}
	if !hasKey {
		violations = append(violations, Violation{Kind: NoCandidateKey})
	}

	return len(violations) == 0, violations
}

// Check2NF tests the second normal form: 1NF plus no partial dependency of
// a non-prime attribute on a proper part of a candidate key. When every
// candidate key is a single attribute no partial dependency is possible and
// the scan is skipped entirely. Each violating FD is reported once, against
// the first composite candidate key (in enumeration order) that makes it
// partial.
func (a *Analyzer) Check2NF() (bool, []Violation) {
	ok, violations := a.Check1NF()
	if !ok {
		return false, violations
	}

	allSingle := true
	for _, key := range a.CandidateKeys {
		if key.Len() != 1 {
			allSingle = false
			break
		}
	}
	if allSingle {
		return true, nil
	}

	for _, f := range a.Relation.FDs {
		if f.IsTrivial() {
			continue
		}
		dependentNonPrime := f.Dependent.Intersect(a.NonPrimeAttributes)
		if dependentNonPrime.Len() == 0 {
			continue
		}

		for _, key := range a.CandidateKeys {
			if key.Len() > 1 && f.IsPartialOf(key) {
				violations = append(violations, Violation{
					Kind:        PartialDependency,
					Determinant: f.Determinant,
					Dependent:   dependentNonPrime,
					Key:         key,
				})
				break
			}
		}
	}

	return len(violations) == 0, violations
}

// Check3NF tests the third normal form: 2NF plus no transitive dependency.
// An FD X → Y violates 3NF when X is not a superkey and Y − X contains a
// non-prime attribute. Every violating FD is reported.
func (a *Analyzer) Check3NF() (bool, []Violation) {
	ok, violations := a.Check2NF()
	if !ok {
		return false, violations
	}

	for _, f := range a.Relation.FDs {
		if f.IsTrivial() {
			continue
		}

		nonPrimeInDependent := f.Dependent.Diff(f.Determinant).Intersect(a.NonPrimeAttributes)
		if nonPrimeInDependent.Len() == 0 {
			continue
		}
		if fd.IsSuperkey(f.Determinant, a.Relation) {
			continue
		}

		violations = append(violations, Violation{
			Kind:        TransitiveDependency,
			Determinant: f.Determinant,
			Dependent:   nonPrimeInDependent,
		})
	}

	return len(violations) == 0, violations
}

// CheckBCNF tests Boyce-Codd normal form. The check builds on 1NF only, not
// on 2NF/3NF: every non-trivial FD must have a superkey determinant,
// regardless of prime/non-prime status.
func (a *Analyzer) CheckBCNF() (bool, []Violation) {
	ok, violations := a.Check1NF()
	if !ok {
		return false, violations
	}

	for _, f := range a.Relation.FDs {
		if f.IsTrivial() {
			continue
		}
		if fd.IsSuperkey(f.Determinant, a.Relation) {
			continue
		}
		violations = append(violations, Violation{
			Kind:        BCNFViolation,
			Determinant: f.Determinant,
			Dependent:   f.Dependent,
		})
	}

	return len(violations) == 0, violations
}

// Check4NF tests the fourth normal form: BCNF plus no non-trivial MVD with
// a non-superkey determinant. X →→ Y is trivial when R − X − Y is empty.
func (a *Analyzer) Check4NF() (bool, []Violation) {
	ok, violations := a.CheckBCNF()
	if !ok {
		return false, violations
	}

	all := a.Relation.AttributeSet()
	for _, mvd := range a.Relation.MVDs {
		if fd.IsSuperkey(mvd.Determinant, a.Relation) {
			continue
		}
		if mvd.IsTrivialIn(all) {
			continue
		}
		violations = append(violations, Violation{
			Kind:        NontrivialMVD,
			Determinant: mvd.Determinant,
			Dependent:   mvd.Dependent,
		})
	}

	return len(violations) == 0, violations
}

// DetermineNormalForm walks the hierarchy 1NF→2NF→3NF→BCNF→4NF and returns
// the highest satisfied form together with the violations introduced at the
// failing level. Because each check repeats its prerequisite's violations,
// consecutive levels are de-duplicated by rendered message before reporting.
func (a *Analyzer) DetermineNormalForm() (relation.NormalForm, []Violation) {
	ok1, v1 := a.Check1NF()
	if !ok1 {
		return relation.Unnormalized, v1
	}

	ok2, v2 := a.Check2NF()
	if !ok2 {
		return relation.FirstNF, dedupeAgainst(v2, v1)
	}

	ok3, v3 := a.Check3NF()
	if !ok3 {
		return relation.SecondNF, dedupeAgainst(v3, v2)
	}

	okB, vB := a.CheckBCNF()
	if !okB {
		return relation.ThirdNF, vB
	}

	ok4, v4 := a.Check4NF()
	if !ok4 {
		return relation.BCNF, v4
	}

	return relation.FourthNF, nil
}

// dedupeAgainst drops violations whose rendered message already appeared at
// the previous level.
func dedupeAgainst(violations, previous []Violation) []Violation {
	seen := make(map[string]bool, len(previous))
	for _, v := range previous {
		seen[v.String()] = true
	}
	var out []Violation
	for _, v := range violations {
		if !seen[v.String()] {
			out = append(out, v)
		}
	}
	return out
}
