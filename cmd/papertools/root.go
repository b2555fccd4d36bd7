package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Afrawles/papertools/internal/config"
	"github.com/Afrawles/papertools/internal/papertools"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	reportPath string

	linksInput  string
	linksOutput string
	linksMarker string
	linksColumn int

	papersInput      string
	papersOutput     string
	papersWithNumber bool
	papersNFC        bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "papertools",
	Short: "Convert research paper lists and links for the lab database",
	Long: `papertools prepares publication data for import into the lab website database.

  convert-links   restore original publisher links in a CSV export
  split-papers    turn a numbered text list of papers into (title, citation) rows`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var convertLinksCmd = &cobra.Command{
	Use:   "convert-links",
	Short: "Replace libaccess proxy links with their original link",
	Long: `Reads a CSV file and rewrites the link column. Links that go through the
library proxy, e.g. https://pubs-acs-org.libaccess.lib.mcmaster.ca/doi/...,
get the proxy marker removed and their hostname restored
(https://pubs.acs.org/doi/...). All other rows are copied unchanged.`,
	Args: cobra.NoArgs,
	RunE: convertLinks,
}

var splitPapersCmd = &cobra.Command{
	Use:   "split-papers",
	Short: "Extract (title, citation) rows from a numbered text list",
	Long: `Reads a text file where every paper takes three lines (numbered title,
citation, separator) and writes one CSV row per paper. The title's leading
"<n>. " is removed.`,
	Args: cobra.NoArgs,
	RunE: splitPapers,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(convertLinksCmd, splitPapersCmd)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&reportPath, "report", "", "Write a JSON run report to this file")

	convertLinksCmd.Flags().StringVarP(&linksInput, "input", "i", "", "Input CSV (default ResearchPapers.csv)")
	convertLinksCmd.Flags().StringVarP(&linksOutput, "output", "o", "", "Output CSV or .xlsx (default Converted.csv)")
	convertLinksCmd.Flags().StringVar(&linksMarker, "marker", "", "Proxy marker to remove (default "+config.DefaultMarker+")")
	convertLinksCmd.Flags().IntVar(&linksColumn, "column", config.DefaultColumn, "Link column; negative counts from the end")

	splitPapersCmd.Flags().StringVarP(&papersInput, "input", "i", "", "Input text file (default ResearchPapers.txt)")
	splitPapersCmd.Flags().StringVarP(&papersOutput, "output", "o", "", "Output CSV or .xlsx (default researchPapers.csv)")
	splitPapersCmd.Flags().BoolVar(&papersWithNumber, "with-number", false, "Keep the enumeration as a leading column")
	splitPapersCmd.Flags().BoolVar(&papersNFC, "nfc", false, "Normalize titles and citations to Unicode NFC")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	flags := cmd.Flags()
	switch cmd {
	case convertLinksCmd:
		if flags.Changed("input") {
			cfg.Links.Input = linksInput
		}
		if flags.Changed("output") {
			cfg.Links.Output = linksOutput
		}
		if flags.Changed("marker") {
			cfg.Links.Marker = linksMarker
		}
		if flags.Changed("column") {
			cfg.Links.Column = linksColumn
		}
	case splitPapersCmd:
		if flags.Changed("input") {
			cfg.Papers.Input = papersInput
		}
		if flags.Changed("output") {
			cfg.Papers.Output = papersOutput
		}
		if flags.Changed("with-number") {
			cfg.Papers.WithNumber = papersWithNumber
		}
		if flags.Changed("nfc") {
			cfg.Papers.NFC = papersNFC
		}
	}

	logger, err = papertools.NewLogger(cfg.Log)
	return err
}

func convertLinks(cmd *cobra.Command, args []string) error {
	app := papertools.New(cfg, logger)

	bar := newSpinner("Converting links")
	summary, err := app.ConvertLinks()
	finishBar(bar)
	if err != nil {
		return err
	}

	fmt.Printf("\nConverted links saved to %s\n", summary.Output)
	fmt.Printf("  Rows: %d\n", summary.Rows())
	fmt.Printf("  Rewritten: %d\n", summary.Rewritten)
	fmt.Printf("  Skipped: %d\n", summary.Skipped)

	return writeReport(summary)
}

func splitPapers(cmd *cobra.Command, args []string) error {
	app := papertools.New(cfg, logger)

	bar := newSpinner("Splitting papers")
	summary, err := app.SplitPapers()
	finishBar(bar)
	if err != nil {
		return err
	}

	fmt.Printf("\nPapers saved to %s\n", summary.Output)
	fmt.Printf("  Records: %d\n", len(summary.Records))

	return writeReport(summary)
}

func writeReport(summary any) error {
	if reportPath == "" {
		return nil
	}
	if err := papertools.ExportJSON(summary, reportPath); err != nil {
		return err
	}
	fmt.Printf("  -> %s (JSON report)\n", reportPath)
	return nil
}
