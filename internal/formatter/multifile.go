package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tordrt/relnorm/internal/analyzer"
	"github.com/tordrt/relnorm/internal/relation"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// MultiFileFormatter writes a normalization result to multiple files in a
// directory: an overview file plus one file per decomposed fragment.
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter.
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// FormatResult writes the result across files.
func (f *MultiFileFormatter) FormatResult(res *relation.NormalizationResult) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(res); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, frag := range res.Decomposed {
		if err := f.writeFragmentFile(frag); err != nil {
			return fmt.Errorf("failed to write fragment file for %s: %w", frag.Name, err)
		}
	}

	return nil
}

// writeOverview writes the overview file: the original relation, the step
// trace, the fragment list, and the preservation summary.
func (f *MultiFileFormatter) writeOverview(res *relation.NormalizationResult) error {
	ext := f.getFileExtension()
	filename := filepath.Join(f.OutputDir, "_overview"+ext)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		return f.writeMarkdownOverview(file, res)
	}
	return f.writeTextOverview(file, res)
}

func (f *MultiFileFormatter) writeMarkdownOverview(file *os.File, res *relation.NormalizationResult) error {
	_, _ = fmt.Fprintf(file, "# Normalization of %s: %s → %s\n\n",
		res.Original.Name, res.OriginalForm, res.TargetForm)
	_, _ = fmt.Fprintf(file, "Original relation: `%s`\n\n", res.Original)
	_, _ = fmt.Fprintf(file, "Each fragment has a corresponding file: `<fragment_name>%s`\n\n", f.getFileExtension())

	if len(res.Steps) > 0 {
		_, _ = fmt.Fprintf(file, "## Steps\n\n")
		for i, step := range res.Steps {
			_, _ = fmt.Fprintf(file, "%d. %s\n", i+1, step)
		}
		_, _ = fmt.Fprintln(file)
	}

	_, _ = fmt.Fprintf(file, "## Fragments\n\n")
	for _, frag := range sortedFragments(res.Decomposed) {
		_, _ = fmt.Fprintf(file, "- **%s** %s\n", frag.Name, frag.AttributeSet())
	}
	_, _ = fmt.Fprintln(file)

	md := NewMarkdownFormatter(file)
	md.writePreservation(file, res)
	return nil
}

func (f *MultiFileFormatter) writeTextOverview(file *os.File, res *relation.NormalizationResult) error {
	_, _ = fmt.Fprintf(file, "NORMALIZATION %s: %s → %s\n", res.Original.Name, res.OriginalForm, res.TargetForm)
	_, _ = fmt.Fprintf(file, "Each fragment has a file: <fragment_name>%s\n\n", f.getFileExtension())
	_, _ = fmt.Fprintf(file, "original: %s\n\n", res.Original)

	if len(res.Steps) > 0 {
		_, _ = fmt.Fprintln(file, "steps:")
		for i, step := range res.Steps {
			_, _ = fmt.Fprintf(file, "  %d. %s\n", i+1, step)
		}
		_, _ = fmt.Fprintln(file)
	}

	_, _ = fmt.Fprintln(file, "fragments:")
	for _, frag := range sortedFragments(res.Decomposed) {
		_, _ = fmt.Fprintf(file, "  %s %s\n", frag.Name, frag.AttributeSet())
	}
	_, _ = fmt.Fprintln(file)

	if res.PreservesDependencies() {
		_, _ = fmt.Fprintln(file, "all dependencies preserved")
	} else {
		_, _ = fmt.Fprintf(file, "lost dependencies (%d):\n", len(res.Lost))
		for _, fd := range res.Lost {
			_, _ = fmt.Fprintf(file, "  - %s\n", fd)
		}
	}

	return nil
}

// writeFragmentFile writes a single fragment to its own file, re-analyzed so
// the file carries the fragment's own keys and normal form.
func (f *MultiFileFormatter) writeFragmentFile(frag *relation.Relation) error {
	ext := f.getFileExtension()
	filename := filepath.Join(f.OutputDir, frag.Name+ext)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		md := NewMarkdownFormatter(file)
		return md.FormatFragment(file, frag)
	}

	txt := NewTextFormatter(file)
	return txt.FormatAnalysis(analyzer.New(frag).Report())
}

// sortedFragments returns the fragments sorted by name for the overview
// listing. Fragment order in the result itself stays as produced.
func sortedFragments(frags []*relation.Relation) []*relation.Relation {
	sorted := make([]*relation.Relation, len(frags))
	copy(sorted, frags)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
