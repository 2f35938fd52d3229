package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaredevans/task-manager-curses/pkg/auth"
	"github.com/jaredevans/task-manager-curses/pkg/google"
)

func newAuthCommand(flags *rootFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate against Google Tasks and verify access",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			if force {
				tokenPath, err := auth.TokenPath(cfg.Token)
				if err != nil {
					return err
				}
				if err := os.Remove(tokenPath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to remove stored token: %w", err)
				}
			}

			client, err := google.NewClient(cmd.Context(), cfg.TaskList, cfg.ClientSecret, cfg.Token)
			if err != nil {
				return err
			}
			title, err := client.Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("authenticated, but the task list is unreachable: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authenticated. Task list: %s\n", title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "discard the stored token and run the consent flow again")
	return cmd
}
