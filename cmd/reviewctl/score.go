package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zombar/reviewinsights/internal/analyzer"
)

var scoreCmd = &cobra.Command{
	Use:   "score <text...>",
	Short: "Score the sentiment of a text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	result := analyzer.ScoreSentiment(strings.Join(args, " "))

	out, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal sentiment result: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
