package cli

import (
	"log/slog"
	"os"

	"github.com/me/triage/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking TRIAGE_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("TRIAGE_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the triage CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "triage",
		Short: "Support inbox dashboard client",
		Long:  "triage browses the email catalog, drives the priority processing queue and prints analytics.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "Triage server URL (or TRIAGE_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newEmailsCmd(),
		newQueueCmd(),
		newAnalyticsCmd(),
	)

	return root
}
