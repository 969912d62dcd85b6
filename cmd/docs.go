package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List your uploaded documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPIClient()
		if err != nil {
			return err
		}

		docs, err := api.ListDocuments(cmd.Context())
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		if len(docs) == 0 {
			fmt.Println("No documents uploaded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-32s  %-10s  %9s\n", "ID", "Name", "Status", "Size")
		fmt.Println(strings.Repeat("─", 94))
		for _, d := range docs {
			fmt.Printf("%-36s  %-32s  %-10s  %9s\n",
				d.ID,
				truncate(d.DisplayName(), 32),
				d.Status,
				formatSize(d.SizeBytes),
			)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
