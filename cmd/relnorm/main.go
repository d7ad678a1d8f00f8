package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tordrt/relnorm"
)

var (
	inputFile   string
	dbURL       string
	mysqlURL    string
	sqlitePath  string
	tableName   string
	schemaName  string
	normalizeTo string
	format      string
	outputFile  string
	outputDir   string
)

var rootCmd = &cobra.Command{
	Use:   "relnorm",
	Short: "Analyze and normalize relational schemas",
	Long: `Relnorm analyzes a relation's functional and multivalued dependencies,
reports its candidate keys and normal form (1NF through 4NF), and can
decompose it to a target normal form while tracking which dependencies the
decomposition preserves.

The relation comes from a YAML file or from a live PostgreSQL, MySQL, or
SQLite table (with FDs seeded from the table's key constraints).`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Relation definition file (YAML)")
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	rootCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	rootCmd.Flags().StringVarP(&tableName, "table", "t", "", "Table to import (required with a database flag)")
	rootCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	rootCmd.Flags().StringVarP(&normalizeTo, "normalize", "n", "", "Target normal form: 2nf, 3nf, bcnf, or 4nf (default: analyze only)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or markdown")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output (normalization only)")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := validateSourceFlags(inputFile, dbURL, mysqlURL, sqlitePath, tableName); err != nil {
		return err
	}
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if format != "text" && format != "markdown" {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", format)
	}

	rel, err := loadRelation(ctx)
	if err != nil {
		return err
	}

	var writer io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		writer = f
	}

	// Analysis mode
	if normalizeTo == "" {
		if outputDir != "" {
			return fmt.Errorf("--output-dir requires --normalize (analysis output is a single report)")
		}
		report := relnorm.Analyze(rel)
		opts := &relnorm.OutputOptions{Writer: writer, Format: format}
		if err := relnorm.FormatAnalysis(report, opts); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	}

	// Normalization mode
	target, err := relnorm.ParseNormalForm(normalizeTo)
	if err != nil {
		return err
	}

	result, err := relnorm.Normalize(rel, target)
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}

	opts := &relnorm.OutputOptions{Writer: writer, OutputDir: outputDir, Format: format}
	if err := relnorm.FormatResult(result, opts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

// validateSourceFlags checks that exactly one relation source was given and
// that database sources name a table.
func validateSourceFlags(input, pgURL, myURL, sqlite, table string) error {
	sources := 0
	for _, s := range []string{input, pgURL, myURL, sqlite} {
		if s != "" {
			sources++
		}
	}
	if sources == 0 {
		return fmt.Errorf("one of --input, --db-url, --mysql-url, or --sqlite must be specified")
	}
	if sources > 1 {
		return fmt.Errorf("only one of --input, --db-url, --mysql-url, or --sqlite can be specified")
	}
	if input == "" && table == "" {
		return fmt.Errorf("--table is required when importing from a database")
	}
	if input != "" && table != "" {
		return fmt.Errorf("--table only applies to database imports")
	}
	return nil
}

func loadRelation(ctx context.Context) (*relnorm.Relation, error) {
	if inputFile != "" {
		rel, err := relnorm.LoadRelationFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load relation: %w", err)
		}
		return rel, nil
	}

	url := importURL()
	opts := &relnorm.ImportOptions{SchemaName: schemaName}
	rel, err := relnorm.ImportRelation(ctx, url, tableName, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to import table: %w", err)
	}
	return rel, nil
}

// importURL maps the per-engine flags onto the scheme-prefixed URL the
// library expects. --db-url is already a postgres:// URL.
func importURL() string {
	switch {
	case dbURL != "":
		return dbURL
	case mysqlURL != "":
		return "mysql://" + mysqlURL
	default:
		return "sqlite://" + sqlitePath
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
