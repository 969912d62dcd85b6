package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		stats, err := s.AttemptRepo().Stats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if stats.Attempts == 0 {
			fmt.Println("No quizzes taken yet.")
			return nil
		}

		fmt.Printf("Attempts:       %d\n", stats.Attempts)
		fmt.Printf("Average score:  %d%%\n", stats.AvgPercent)
		fmt.Printf("Best score:     %d%%\n", stats.BestPercent)
		if stats.AutoSubmitted > 0 {
			fmt.Printf("Auto-submitted: %d\n", stats.AutoSubmitted)
		}

		attempts, err := s.AttemptRepo().Recent(ctx, limit)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Printf("%-16s  %-28s  %-10s  %6s  %7s\n",
			"Finished", "Document", "Mode", "Score", "Time")
		fmt.Println(strings.Repeat("─", 76))
		for _, a := range attempts {
			score := fmt.Sprintf("%d%%", a.Percent)
			if a.AutoSubmitted {
				score += "*"
			}
			fmt.Printf("%-16s  %-28s  %-10s  %6s  %4d:%02d\n",
				a.FinishedAt.Local().Format("2006-01-02 15:04"),
				truncate(a.DocumentName, 28),
				a.Mode,
				score,
				a.DurationSeconds/60,
				a.DurationSeconds%60,
			)
		}
		if stats.AutoSubmitted > 0 {
			fmt.Println("\n* submitted by the countdown")
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Number of recent attempts to list")
}
