package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/relnorm/internal/analyzer"
	"github.com/tordrt/relnorm/internal/relation"
)

// MarkdownFormatter renders reports as markdown.
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter.
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// FormatAnalysis writes the analysis report of one relation.
func (f *MarkdownFormatter) FormatAnalysis(rep *analyzer.Report) error {
	_, _ = fmt.Fprintf(f.writer, "# Analysis of %s\n\n", rep.Relation.Name)
	f.writeRelationSections(f.writer, rep)

	_, _ = fmt.Fprintf(f.writer, "### Normal form\n\n%s\n\n", rep.NormalForm)
	if len(rep.Violations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Violations")
		_, _ = fmt.Fprintln(f.writer)
		for _, v := range rep.Violations {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", v)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
	return nil
}

// FormatResult writes the outcome of a decomposition run.
func (f *MarkdownFormatter) FormatResult(res *relation.NormalizationResult) error {
	_, _ = fmt.Fprintf(f.writer, "# Normalization of %s: %s → %s\n\n",
		res.Original.Name, res.OriginalForm, res.TargetForm)
	_, _ = fmt.Fprintf(f.writer, "Original relation: `%s`\n\n", res.Original)

	if len(res.Steps) > 0 {
		_, _ = fmt.Fprintln(f.writer, "## Steps")
		_, _ = fmt.Fprintln(f.writer)
		for i, step := range res.Steps {
			_, _ = fmt.Fprintf(f.writer, "%d. %s\n", i+1, step)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	_, _ = fmt.Fprintln(f.writer, "## Fragments")
	_, _ = fmt.Fprintln(f.writer)
	for _, frag := range res.Decomposed {
		if err := f.FormatFragment(f.writer, frag); err != nil {
			return err
		}
	}

	f.writePreservation(f.writer, res)
	return nil
}

// FormatFragment writes one decomposed relation, re-analyzed so the reader
// sees the fragment's own keys and normal form. Exported for the multi-file
// formatter.
func (f *MarkdownFormatter) FormatFragment(w io.Writer, frag *relation.Relation) error {
	rep := analyzer.New(frag).Report()
	_, _ = fmt.Fprintf(w, "### %s\n\n`%s`\n\n", frag.Name, frag)
	f.writeRelationSections(w, rep)
	_, _ = fmt.Fprintf(w, "Normal form: %s\n\n", rep.NormalForm)
	return nil
}

func (f *MarkdownFormatter) writeRelationSections(w io.Writer, rep *analyzer.Report) {
	rel := rep.Relation

	_, _ = fmt.Fprintln(w, "#### Attributes")
	_, _ = fmt.Fprintln(w)
	for _, a := range rel.Attributes {
		if a.IsPrimaryKey {
			_, _ = fmt.Fprintf(w, "- **%s:** %s, PK\n", a.Name, a.DataType)
		} else {
			_, _ = fmt.Fprintf(w, "- **%s:** %s\n", a.Name, a.DataType)
		}
	}
	_, _ = fmt.Fprintln(w)

	if len(rel.FDs) > 0 {
		_, _ = fmt.Fprintln(w, "#### Functional dependencies")
		_, _ = fmt.Fprintln(w)
		for _, fd := range rel.FDs {
			_, _ = fmt.Fprintf(w, "- %s\n", fd)
		}
		_, _ = fmt.Fprintln(w)
	}
	if len(rel.MVDs) > 0 {
		_, _ = fmt.Fprintln(w, "#### Multivalued dependencies")
		_, _ = fmt.Fprintln(w)
		for _, mvd := range rel.MVDs {
			_, _ = fmt.Fprintf(w, "- %s\n", mvd)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, "#### Keys")
	_, _ = fmt.Fprintln(w)
	for _, key := range rep.CandidateKeys {
		_, _ = fmt.Fprintf(w, "- %s\n", key)
	}
	_, _ = fmt.Fprintf(w, "\nPrime attributes: %s; non-prime: %s\n\n",
		rep.PrimeAttributes, rep.NonPrimeAttributes)
}

func (f *MarkdownFormatter) writePreservation(w io.Writer, res *relation.NormalizationResult) {
	_, _ = fmt.Fprintln(w, "## Dependency preservation")
	_, _ = fmt.Fprintln(w)
	if res.PreservesDependencies() {
		_, _ = fmt.Fprintln(w, "All dependencies preserved.")
	} else {
		_, _ = fmt.Fprintf(w, "Lost (%d):\n\n", len(res.Lost))
		for _, fd := range res.Lost {
			_, _ = fmt.Fprintf(w, "- %s\n", fd)
		}
	}
	_, _ = fmt.Fprintf(w, "\nPreserved (%d):\n\n", len(res.Preserved))
	for _, fd := range res.Preserved {
		_, _ = fmt.Fprintf(w, "- %s\n", fd)
	}
}
