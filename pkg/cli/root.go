// Package cli provides the command-line interface: the bare command
// opens the interactive task list, subcommands run one-shot sync and
// credential management.
package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jaredevans/task-manager-curses/pkg/config"
	"github.com/jaredevans/task-manager-curses/pkg/google"
	"github.com/jaredevans/task-manager-curses/pkg/logging"
	"github.com/jaredevans/task-manager-curses/pkg/store"
	"github.com/jaredevans/task-manager-curses/pkg/sync"
	"github.com/jaredevans/task-manager-curses/pkg/ui"
)

// flags shared by every subcommand; flag > config file > default.
type rootFlags struct {
	db           string
	clientSecret string
	token        string
	list         string
}

// NewRootCommand creates the root command. version is set at build time.
func NewRootCommand(version string) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "tasks",
		Short:         "Ordered task list synced with Google Tasks",
		Long:          "tasks keeps an ordered to-do list in a local SQLite database and\nsyncs it bidirectionally with a Google Tasks list, preserving your\nmanual ordering on the remote side with a minimal number of moves.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(&flags)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Log)

			st, err := store.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("failed to open task database: %w", err)
			}
			defer st.Close()

			// Authenticate up front like the one-shot commands do; a
			// missing credential degrades to offline mode rather than
			// blocking the list.
			var syncFn ui.SyncFunc
			remote, err := google.NewClient(cmd.Context(), cfg.TaskList, cfg.ClientSecret, cfg.Token)
			if err != nil {
				logger.Warn("starting offline", "err", err)
			} else {
				opts := sync.Options{
					MoveLimit: cfg.MoveLimit,
					MoveDelay: time.Duration(cfg.MoveDelayMS) * time.Millisecond,
				}
				syncFn = func(ctx context.Context, notify sync.Notifier) *sync.Result {
					return sync.New(st, remote, logger, notify, opts).FullSync(ctx)
				}
			}

			p := tea.NewProgram(ui.New(st, logger, syncFn), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.db, "db", "", "path to the task database")
	pf.StringVar(&flags.clientSecret, "client-secret", "", "path to the OAuth client secret file")
	pf.StringVar(&flags.token, "token", "", "path to the stored OAuth token")
	pf.StringVar(&flags.list, "list", "", "Google Tasks list ID (default @default)")

	root.AddCommand(newSyncCommand(&flags))
	root.AddCommand(newAuthCommand(&flags))
	return root
}

// loadConfig merges the config file with command-line overrides.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.db != "" {
		cfg.DB = flags.db
	}
	if flags.clientSecret != "" {
		cfg.ClientSecret = flags.clientSecret
	}
	if flags.token != "" {
		cfg.Token = flags.token
	}
	if flags.list != "" {
		cfg.TaskList = flags.list
	}
	return cfg, nil
}
