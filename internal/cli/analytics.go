package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/me/triage/internal/analytics"
	"github.com/spf13/cobra"
)

func newAnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Print dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/analytics")
			if err != nil {
				return fmt.Errorf("get analytics: %w", err)
			}
			var s analytics.Summary
			if err := json.Unmarshal(resp.Data, &s); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Catalog:")
			fmt.Fprintf(out, "  Total:      %d\n", s.Stats.Total)
			fmt.Fprintf(out, "  Urgent:     %d\n", s.Stats.Urgent)
			fmt.Fprintf(out, "  Pending:    %d\n", s.Stats.Pending)
			fmt.Fprintf(out, "  Processing: %d\n", s.Stats.Processing)
			fmt.Fprintf(out, "  Resolved:   %d\n", s.Stats.Resolved)

			fmt.Fprintln(out, "\nThis week:")
			fmt.Fprintf(out, "  Emails:          %s\n", humanize.Comma(int64(s.WeekEmails)))
			fmt.Fprintf(out, "  Resolved:        %s\n", humanize.Comma(int64(s.WeekResolved)))
			fmt.Fprintf(out, "  Resolution rate: %.1f%%\n", s.ResolutionRate)

			fmt.Fprintln(out, "\nSentiment:")
			for _, sh := range s.Sentiment {
				fmt.Fprintf(out, "  %-10s %3d  (%.1f%%)\n", sh.Name, sh.Count, sh.Percent)
			}
			if len(s.Categories) > 0 {
				fmt.Fprintln(out, "\nCategories:")
				for _, sh := range s.Categories {
					fmt.Fprintf(out, "  %-24s %3d\n", sh.Name, sh.Count)
				}
			}
			return nil
		},
	}
}
