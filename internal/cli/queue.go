package cli

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/me/triage/pkg/model"
	"github.com/spf13/cobra"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and drive the processing queue",
	}
	cmd.AddCommand(
		newQueueStatusCmd(),
		newQueueActionCmd("start", "Start processing"),
		newQueueActionCmd("pause", "Pause processing; the email in flight still completes"),
		newQueueActionCmd("resume", "Resume processing"),
		newQueueActionCmd("reset", "Discard progress and restart"),
		newQueueActionCmd("reload", "Reload pending and processing emails from the catalog"),
		newQueueWatchCmd(),
	)
	return cmd
}

func newQueueStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the queue snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := client.Queue()
			if err != nil {
				return fmt.Errorf("get queue: %w", err)
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func newQueueActionCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := client.QueueCommand(name)
			if err != nil {
				return fmt.Errorf("queue %s: %w", name, err)
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func newQueueWatchCmd() *cobra.Command {
	var (
		interval     time.Duration
		untilDrained bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live queue view (space: start/pause, r: reset, q: quit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newWatchModel(client, interval, untilDrained)
			p := tea.NewProgram(m, tea.WithOutput(cmd.OutOrStdout()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			if wm, ok := final.(watchModel); ok && wm.err != nil {
				return wm.err
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Refresh interval")
	cmd.Flags().BoolVar(&untilDrained, "until-drained", false, "Exit once every email has been processed")
	return cmd
}

func printSnapshot(out io.Writer, snap model.QueueSnapshot) {
	fmt.Fprintf(out, "Queue: %s\n", snap.Phase)
	fmt.Fprintf(out, "  Progress:  %d of %d processed (%.1f%%)\n", snap.CompletedCount, snap.Total, snap.Progress)
	fmt.Fprintf(out, "  Urgent:    %d\n", snap.UrgentCount)
	fmt.Fprintf(out, "  Normal:    %d\n", snap.NormalCount)
	if snap.InFlight != "" {
		fmt.Fprintf(out, "  In flight: %s\n", snap.InFlight)
	}
	if len(snap.Entries) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%-4s  %-6s  %-8s  %s\n", "POS", "ID", "PRIORITY", "STATUS")
	for _, e := range snap.Entries {
		pos := "-"
		if e.Position > 0 {
			pos = fmt.Sprintf("#%d", e.Position)
		}
		fmt.Fprintf(out, "%-4s  %-6s  %-8s  %s\n", pos, e.ID, e.Priority, e.Status)
	}
}
