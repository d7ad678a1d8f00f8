// Package formatter renders analysis reports and normalization results as
// compact text or markdown, to a single writer or split across files.
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/relnorm/internal/analyzer"
	"github.com/tordrt/relnorm/internal/relation"
)

// TextFormatter renders reports as compact text.
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// FormatAnalysis writes the analysis report of one relation.
func (f *TextFormatter) FormatAnalysis(rep *analyzer.Report) error {
	_, _ = fmt.Fprintf(f.writer, "RELATION %s\n", rep.Relation)
	f.writeRelationBody(rep, "  ")

	_, _ = fmt.Fprintf(f.writer, "  normal form: %s\n", rep.NormalForm)
	if len(rep.Violations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "  violations:")
		for _, v := range rep.Violations {
			_, _ = fmt.Fprintf(f.writer, "    - %s\n", v)
		}
	}
	return nil
}

// FormatResult writes the outcome of a decomposition run: the header, the
// step trace, each final fragment re-analyzed at the target level, and the
// dependency-preservation summary.
func (f *TextFormatter) FormatResult(res *relation.NormalizationResult) error {
	_, _ = fmt.Fprintf(f.writer, "NORMALIZATION %s: %s → %s\n",
		res.Original.Name, res.OriginalForm, res.TargetForm)
	_, _ = fmt.Fprintf(f.writer, "  original: %s\n", res.Original)

	if len(res.Steps) > 0 {
		_, _ = fmt.Fprintln(f.writer, "\n  steps:")
		for i, step := range res.Steps {
			_, _ = fmt.Fprintf(f.writer, "    %d. %s\n", i+1, step)
		}
	}

	_, _ = fmt.Fprintf(f.writer, "\n  fragments (%d):\n", len(res.Decomposed))
	for _, frag := range res.Decomposed {
		rep := analyzer.New(frag).Report()
		_, _ = fmt.Fprintf(f.writer, "\n  RELATION %s\n", frag)
		f.writeRelationBody(rep, "    ")
		_, _ = fmt.Fprintf(f.writer, "    normal form: %s\n", rep.NormalForm)
	}

	_, _ = fmt.Fprintln(f.writer)
	if res.PreservesDependencies() {
		_, _ = fmt.Fprintln(f.writer, "  all dependencies preserved")
	} else {
		_, _ = fmt.Fprintf(f.writer, "  lost dependencies (%d):\n", len(res.Lost))
		for _, fd := range res.Lost {
			_, _ = fmt.Fprintf(f.writer, "    - %s\n", fd)
		}
	}
	_, _ = fmt.Fprintf(f.writer, "  preserved dependencies (%d):\n", len(res.Preserved))
	for _, fd := range res.Preserved {
		_, _ = fmt.Fprintf(f.writer, "    - %s\n", fd)
	}

	return nil
}

// writeRelationBody writes the attribute, dependency, and key sections
// shared by analysis and per-fragment output.
func (f *TextFormatter) writeRelationBody(rep *analyzer.Report, indent string) {
	rel := rep.Relation

	_, _ = fmt.Fprintf(f.writer, "%sattributes:\n", indent)
	for _, a := range rel.Attributes {
		pk := ""
		if a.IsPrimaryKey {
			pk = " [PK]"
		}
		_, _ = fmt.Fprintf(f.writer, "%s  %s: %s%s\n", indent, a.Name, a.DataType, pk)
	}

	if len(rel.FDs) > 0 {
		_, _ = fmt.Fprintf(f.writer, "%sfunctional dependencies (%d):\n", indent, len(rel.FDs))
		for _, fd := range rel.FDs {
			_, _ = fmt.Fprintf(f.writer, "%s  %s\n", indent, fd)
		}
	}
	if len(rel.MVDs) > 0 {
		_, _ = fmt.Fprintf(f.writer, "%smultivalued dependencies (%d):\n", indent, len(rel.MVDs))
		for _, mvd := range rel.MVDs {
			_, _ = fmt.Fprintf(f.writer, "%s  %s\n", indent, mvd)
		}
	}

	_, _ = fmt.Fprintf(f.writer, "%scandidate keys (%d):\n", indent, len(rep.CandidateKeys))
	for _, key := range rep.CandidateKeys {
		_, _ = fmt.Fprintf(f.writer, "%s  %s\n", indent, key)
	}
	_, _ = fmt.Fprintf(f.writer, "%sprime attributes: %s\n", indent, rep.PrimeAttributes)
	_, _ = fmt.Fprintf(f.writer, "%snon-prime attributes: %s\n", indent, rep.NonPrimeAttributes)
}
