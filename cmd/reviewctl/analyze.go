package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zombar/reviewinsights/internal/analyzer"
	"github.com/zombar/reviewinsights/internal/ingest"
	"github.com/zombar/reviewinsights/internal/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a file of reviews",
	Long:  "Reads an XLSX, CSV or JSON file of reviews and writes the full analysis report as JSON.",
	RunE:  runAnalyze,
}

var (
	analyzeInput    string
	analyzeOutput   string
	analyzeMinCount int
	analyzePretty   bool
	analyzeVerbose  bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "in", "i", "", "Path to the reviews file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "Path to the output report JSON (default stdout)")
	analyzeCmd.Flags().IntVar(&analyzeMinCount, "min-count", analyzer.DefaultMinKeywordCount, "Minimum occurrences for a keyword")
	analyzeCmd.Flags().BoolVar(&analyzePretty, "pretty", false, "Indent the JSON output")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Log pipeline progress to stderr")

	if err := analyzeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analyzeMinCount < 1 {
		return fmt.Errorf("--min-count must be at least 1, got %d", analyzeMinCount)
	}

	report, err := analyzeFile(cmd, analyzeInput, analyzeMinCount, analyzeVerbose)
	if err != nil {
		return err
	}

	var out []byte
	if analyzePretty {
		out, err = json.MarshalIndent(report, "", "  ")
	} else {
		out, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	if analyzeOutput == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(analyzeOutput)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(analyzeOutput, out, 0644); err != nil {
		return fmt.Errorf("failed to write report to output file %s: %w", analyzeOutput, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Analyzed %d reviews, %d suggestions written to %s\n",
		report.Stats.TotalReviews, len(report.Suggestions.Suggestions), analyzeOutput)
	return nil
}

// analyzeFile loads a reviews file and runs the pipeline over it
func analyzeFile(cmd *cobra.Command, path string, minCount int, verbose bool) (models.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to read reviews file %s: %w", path, err)
	}

	reviews, err := ingest.Load(data, filepath.Base(path))
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a := analyzer.New(analyzer.WithMinKeywordCount(minCount), analyzer.WithLogger(logger))
	return a.Analyze(reviews), nil
}
