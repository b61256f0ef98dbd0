package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-mdr/internal/annotation"
	"github.com/inodb/vibe-mdr/internal/discover"
	"github.com/inodb/vibe-mdr/internal/output"
	"github.com/inodb/vibe-mdr/internal/sample"
	"github.com/inodb/vibe-mdr/internal/table"
	"github.com/inodb/vibe-mdr/internal/vcf"
)

// Table reading engines.
const (
	engineNative = "native"
	engineDuckDB = "duckdb"
)

// DefaultReportName is the HTML report written into the input directory.
const DefaultReportName = "Final_MDR_Report.html"

// reportOptions holds the resolved settings of one report run.
type reportOptions struct {
	Dir          string
	Pattern      string
	InputFormat  string
	Engine       string
	Columns      table.Columns
	OutputFormat string
	OutputPath   string
	Workers      int
	NoColor      bool
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [dir]",
		Short: "Classify every sample table in a directory and write a report",
		Long: `Discover per-sample annotation tables in a directory, classify each
sample's mutations against the resistance catalog and write one report.`,
		Example: `  vibe-mdr report 07_mdr_analysis_snpsift
  vibe-mdr report results/ --pattern '*.ann.vcf.gz' -f tab -o -
  vibe-mdr report results/ --engine duckdb --workers 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			opts := reportOptions{
				Dir:          viper.GetString("input.dir"),
				Pattern:      viper.GetString("input.pattern"),
				InputFormat:  viper.GetString("input.format"),
				Engine:       viper.GetString("input.engine"),
				Columns:      table.DefaultColumns(),
				OutputFormat: viper.GetString("output.format"),
				OutputPath:   viper.GetString("output.path"),
				Workers:      viper.GetInt("workers"),
			}
			if len(args) == 1 {
				opts.Dir = args[0]
			}
			if c := viper.GetString("input.gene_column"); c != "" {
				opts.Columns.Gene = c
			}
			if c := viper.GetString("input.change_column"); c != "" {
				opts.Columns.Change = c
			}
			opts.NoColor, _ = cmd.Flags().GetBool("no-color")

			return runReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, logger)
		},
	}

	cmd.Flags().String("pattern", discover.DefaultPattern, "Glob pattern matching sample tables")
	cmd.Flags().String("input-format", "auto", "Input format: auto, tsv, vcf")
	cmd.Flags().String("engine", engineNative, "TSV reading engine: native, duckdb")
	cmd.Flags().String("gene-column", table.ColGene, "Header of the gene column")
	cmd.Flags().String("change-column", table.ColHGVSp, "Header of the protein change column")
	cmd.Flags().StringP("output-format", "f", output.FormatHTML, "Output format: html, tab, json, terminal")
	cmd.Flags().StringP("output", "o", "", "Output file (default: <dir>/"+DefaultReportName+" for html, stdout otherwise)")
	cmd.Flags().Int("workers", 1, "Number of samples classified concurrently (0 = all CPUs)")
	cmd.Flags().Bool("no-color", false, "Disable coloured terminal output")

	viper.BindPFlag("input.pattern", cmd.Flags().Lookup("pattern"))
	viper.BindPFlag("input.format", cmd.Flags().Lookup("input-format"))
	viper.BindPFlag("input.engine", cmd.Flags().Lookup("engine"))
	viper.BindPFlag("input.gene_column", cmd.Flags().Lookup("gene-column"))
	viper.BindPFlag("input.change_column", cmd.Flags().Lookup("change-column"))
	viper.BindPFlag("output.format", cmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}

// runReport discovers, classifies and reports. Progress goes to stderr.
func runReport(stdout, stderr io.Writer, opts reportOptions, logger *zap.Logger) error {
	if opts.Engine != engineNative && opts.Engine != engineDuckDB {
		return usageError{fmt.Errorf("unknown engine %q (use native or duckdb)", opts.Engine)}
	}
	switch opts.InputFormat {
	case "auto", discover.FormatTSV, discover.FormatVCF:
	default:
		return usageError{fmt.Errorf("unknown input format %q (use auto, tsv or vcf)", opts.InputFormat)}
	}
	formatter, err := output.NewFormatter(opts.OutputFormat, opts.NoColor)
	if err != nil {
		return usageError{err}
	}

	cat, err := loadCatalog(logger)
	if err != nil {
		return err
	}

	inputs, err := discover.Find(opts.Dir, opts.Pattern)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no files matching %s in %s", opts.Pattern, opts.Dir)
	}
	fmt.Fprintf(stderr, "Generating Report for %d samples...\n", len(inputs))

	items := make([]sample.WorkItem, len(inputs))
	for i, in := range inputs {
		items[i] = sample.WorkItem{
			Sample: in.Sample,
			Open:   opener(in, opts),
		}
	}

	agg := sample.NewAggregator(cat)
	agg.SetLogger(logger)

	var results []*sample.Result
	err = agg.Run(items, opts.Workers, func(wr sample.WorkResult) error {
		if wr.Err != nil {
			logger.Warn("skipping sample", zap.String("sample", wr.Sample), zap.Error(wr.Err))
			fmt.Fprintf(stderr, "Skipping %s: %v\n", wr.Sample, wr.Err)
			return nil
		}
		logger.Debug("classified sample",
			zap.String("sample", wr.Sample),
			zap.Int("mutations", len(wr.Result.Mutations)),
			zap.Int("skipped_rows", wr.Result.SkippedRows))
		results = append(results, wr.Result)
		return nil
	})
	if err != nil {
		return err
	}

	report := output.NewReport(cat.Name(), results)

	path := opts.OutputPath
	if path == "" && opts.OutputFormat == output.FormatHTML {
		path = filepath.Join(opts.Dir, DefaultReportName)
	}
	if path == "" || path == "-" {
		return formatter.Format(stdout, report)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := formatter.Format(f, report); err != nil {
		f.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	fmt.Fprintf(stderr, "Success! Open %s\n", path)
	return nil
}

// opener returns the function that opens one discovered input.
func opener(in discover.Input, opts reportOptions) func() (annotation.RowReader, error) {
	format := in.Format
	if opts.InputFormat != "auto" {
		format = opts.InputFormat
	}
	path := in.Path

	switch {
	case format == discover.FormatVCF:
		return func() (annotation.RowReader, error) {
			return vcf.NewParser(path)
		}
	case opts.Engine == engineDuckDB:
		return func() (annotation.RowReader, error) {
			return table.LoadDuckDB(path, opts.Columns)
		}
	default:
		return func() (annotation.RowReader, error) {
			return table.Open(path, opts.Columns)
		}
	}
}
