package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaredevans/task-manager-curses/pkg/google"
	"github.com/jaredevans/task-manager-curses/pkg/logging"
	"github.com/jaredevans/task-manager-curses/pkg/store"
	"github.com/jaredevans/task-manager-curses/pkg/sync"
)

func newSyncCommand(flags *rootFlags) *cobra.Command {
	var dryRun bool
	var moveLimit int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass (push, pull, order) and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Log)

			st, err := store.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("failed to open task database: %w", err)
			}
			defer st.Close()

			remote, err := google.NewClient(cmd.Context(), cfg.TaskList, cfg.ClientSecret, cfg.Token)
			if err != nil {
				return fmt.Errorf("failed to connect to Google Tasks: %w", err)
			}

			limit := cfg.MoveLimit
			if cmd.Flags().Changed("move-limit") {
				limit = moveLimit
			}
			opts := sync.Options{
				DryRun:    dryRun,
				MoveLimit: limit,
				MoveDelay: time.Duration(cfg.MoveDelayMS) * time.Millisecond,
			}

			notify := func(msg string) { fmt.Fprintln(cmd.OutOrStdout(), msg) }
			res := sync.New(st, remote, logger, notify, opts).FullSync(cmd.Context())
			if len(res.Errors) > 0 {
				for _, e := range res.Errors {
					fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
				}
				return fmt.Errorf("sync finished with %d error(s)", len(res.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report intended order moves without executing them")
	cmd.Flags().IntVar(&moveLimit, "move-limit", 0, "cap order moves per pass (0 = unlimited)")
	return cmd
}
