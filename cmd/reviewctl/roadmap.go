package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zombar/reviewinsights/internal/analyzer"
	"github.com/zombar/reviewinsights/internal/models"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Print the implementation roadmap for a file of reviews",
	RunE:  runRoadmap,
}

var (
	roadmapInput    string
	roadmapMinCount int
)

func init() {
	roadmapCmd.Flags().StringVarP(&roadmapInput, "in", "i", "", "Path to the reviews file (required)")
	roadmapCmd.Flags().IntVar(&roadmapMinCount, "min-count", analyzer.DefaultMinKeywordCount, "Minimum occurrences for a keyword")

	if err := roadmapCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(roadmapCmd)
}

func runRoadmap(cmd *cobra.Command, _ []string) error {
	report, err := analyzeFile(cmd, roadmapInput, roadmapMinCount, false)
	if err != nil {
		return err
	}

	return writeRoadmap(cmd.OutOrStdout(), report.Roadmap)
}

func writeRoadmap(w io.Writer, roadmap models.Roadmap) error {
	if len(roadmap.Phases) == 0 {
		_, err := fmt.Fprintln(w, "No issues found, nothing to plan.")
		return err
	}

	for i, phase := range roadmap.Phases {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Phase %d: %s (%s)\n", phase.Phase, phase.Title, phase.Duration)
		fmt.Fprintf(w, "  Outcome: %s\n", phase.ExpectedOutcome)
		for _, s := range phase.Suggestions {
			fmt.Fprintf(w, "  - [%s] %s: %s\n", s.Priority, s.Category, s.Issue)
		}
	}
	return nil
}
