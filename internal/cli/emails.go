package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newEmailsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emails",
		Short: "Browse the email catalog",
	}
	cmd.AddCommand(newEmailsListCmd(), newEmailsShowCmd())
	return cmd
}

func newEmailsListCmd() *cobra.Command {
	var (
		search    string
		priority  string
		sentiment string
		status    string
		limit     int
		offset    int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List emails, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("q", search)
			q.Set("priority", priority)
			q.Set("sentiment", sentiment)
			q.Set("status", status)
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				q.Set("offset", strconv.Itoa(offset))
			}

			emails, pg, err := client.ListEmails(q)
			if err != nil {
				return fmt.Errorf("list emails: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(emails) == 0 {
				fmt.Fprintln(out, "No emails found.")
				return nil
			}

			fmt.Fprintf(out, "%-6s  %-8s  %-10s  %-10s  %-24s  %-44s  %s\n", "ID", "PRIORITY", "SENTIMENT", "STATUS", "SENDER", "SUBJECT", "RECEIVED")
			fmt.Fprintf(out, "%-6s  %-8s  %-10s  %-10s  %-24s  %-44s  %s\n", "--", "--------", "---------", "------", "------", "-------", "--------")
			for _, e := range emails {
				fmt.Fprintf(out, "%-6s  %-8s  %-10s  %-10s  %-24s  %-44s  %s\n",
					e.ID, e.Priority, e.Sentiment, e.Status, clip(e.Sender, 24), clip(e.Subject, 44), humanize.Time(e.ReceivedAt))
			}

			if pg != nil && pg.HasMore {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(emails), pg.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "query", "q", "", "Search subject and sender")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority (urgent, normal)")
	cmd.Flags().StringVar(&sentiment, "sentiment", "", "Filter by sentiment (positive, neutral, negative)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, processing, resolved)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (server default 20, max 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}

func newEmailsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <email_id>",
		Short: "Show one email with its queue status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			resp, err := client.Get("/api/v1/emails/" + url.PathEscape(id))
			if err != nil {
				return fmt.Errorf("get email: %w", err)
			}

			var data struct {
				ID            string `json:"id"`
				Sender        string `json:"sender"`
				Subject       string `json:"subject"`
				Body          string `json:"body"`
				ReceivedAt    string `json:"received_at"`
				Priority      string `json:"priority"`
				Sentiment     string `json:"sentiment"`
				Status        string `json:"status"`
				Category      string `json:"category"`
				AIResponse    string `json:"ai_response"`
				ExtractedInfo struct {
					Requirements []string `json:"requirements"`
					Keywords     []string `json:"keywords"`
				} `json:"extracted_info"`
				Queue struct {
					InQueue  bool   `json:"in_queue"`
					Status   string `json:"status"`
					Position int    `json:"position"`
				} `json:"queue"`
			}
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Email: %s\n", data.ID)
			fmt.Fprintf(out, "  Subject:   %s\n", data.Subject)
			fmt.Fprintf(out, "  Sender:    %s\n", data.Sender)
			fmt.Fprintf(out, "  Received:  %s\n", data.ReceivedAt)
			fmt.Fprintf(out, "  Priority:  %s\n", data.Priority)
			fmt.Fprintf(out, "  Sentiment: %s\n", data.Sentiment)
			fmt.Fprintf(out, "  Status:    %s\n", data.Status)
			fmt.Fprintf(out, "  Category:  %s\n", data.Category)
			if data.Queue.InQueue {
				fmt.Fprintf(out, "  Queue:     %s", data.Queue.Status)
				if data.Queue.Position > 0 {
					fmt.Fprintf(out, " (#%d in queue)", data.Queue.Position)
				}
				fmt.Fprintln(out)
			}
			if len(data.ExtractedInfo.Requirements) > 0 {
				fmt.Fprintln(out, "  Requirements:")
				for _, r := range data.ExtractedInfo.Requirements {
					fmt.Fprintf(out, "    - %s\n", r)
				}
			}
			if len(data.ExtractedInfo.Keywords) > 0 {
				fmt.Fprintf(out, "  Keywords:  %s\n", strings.Join(data.ExtractedInfo.Keywords, ", "))
			}
			fmt.Fprintf(out, "\n%s\n", data.Body)
			if data.AIResponse != "" {
				fmt.Fprintf(out, "\n--- AI response ---\n%s\n", data.AIResponse)
			}
			return nil
		},
	}
}

// clip shortens s to n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
