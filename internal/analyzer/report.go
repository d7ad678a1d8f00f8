package analyzer

import "github.com/tordrt/relnorm/internal/relation"

// Report is the packaged outcome of analyzing one relation: the inputs the
// checks derived plus the determined normal form and its violations. This is
// the value the formatters render.
type Report struct {
	Relation           *relation.Relation
	CandidateKeys      []relation.AttributeSet
	PrimeAttributes    relation.AttributeSet
	NonPrimeAttributes relation.AttributeSet
	NormalForm         relation.NormalForm
	Violations         []Violation
}

// Report runs DetermineNormalForm and assembles the full analysis report.
func (a *Analyzer) Report() *Report {
	form, violations := a.DetermineNormalForm()
	return &Report{
		Relation:           a.Relation,
		CandidateKeys:      a.CandidateKeys,
		PrimeAttributes:    a.PrimeAttributes,
		NonPrimeAttributes: a.NonPrimeAttributes,
		NormalForm:         form,
		Violations:         violations,
	}
}

// ViolationMessages renders the report's violations as human-readable prose.
func (r *Report) ViolationMessages() []string {
	return renderAll(r.Violations)
}
