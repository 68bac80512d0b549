package cmd

import (
	"fmt"
	"io"

	"github.com/rohmanhakim/consents/internal/logging"
	"github.com/rohmanhakim/consents/internal/tui"
	"github.com/rohmanhakim/consents/pkg/fileutil"
	"github.com/spf13/cobra"
)

var browseLogFile string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse and add consents interactively",
	Long: `Interactive consent browser.

←/→ (h/l) change page, a opens the submission form, q quits. Logs are
discarded unless --log-file is given, since the browser owns the screen.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVar(&browseLogFile, "log-file", "", "write logs to this file")
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if browseLogFile != "" {
		f, err := fileutil.OpenAppend(browseLogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg, logOut)

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	ctx := logging.WithComponent(logging.WithContext(cmd.Context(), logger), "tui")
	return tui.Run(ctx, store)
}
