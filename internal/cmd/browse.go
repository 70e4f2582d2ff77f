package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gametracker/gametracker/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive browser",
	Long: `Open the full-screen interactive browser. It restores the stored
session on startup and routes between the catalog, your library, the
forum, and the sign-in forms.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		notify, start := tui.Run(rt.client, rt.store)
		// Route session expiry into the running program instead of
		// printing over the alternate screen.
		rt.onSessionExpired = notify
		defer func() { rt.onSessionExpired = nil }()

		return start()
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
