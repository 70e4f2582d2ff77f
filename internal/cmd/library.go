package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gametracker/gametracker/internal/api"
	"github.com/gametracker/gametracker/internal/validate"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage your personal game library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the games in your library",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		entries, err := rt.client.ListLibrary(cmd.Context())
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("Your library is empty. Add a game with 'gametracker library add'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tGAME\tSTATUS\tHOURS\tRATING")
		for _, entry := range entries {
			name := "(unknown)"
			if entry.Game != nil {
				name = entry.Game.Name
			}
			rating := "-"
			if entry.PersonalRating > 0 {
				rating = fmt.Sprintf("%d/10", entry.PersonalRating)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n", entry.ID, name, entry.Status, entry.HoursPlayed, rating)
		}
		return w.Flush()
	},
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <game-id>",
	Short: "Add a game to your library",
	Long: `Add a catalog game to your personal library.

The status must be one of Pendiente, Jugando, or Completado.

Examples:
  gametracker library add 6650a1 --status Jugando --hours 12.5 --rating 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		input, err := libraryInputFromFlags(cmd, args[0])
		if err != nil {
			return err
		}

		entry, err := rt.client.AddToLibrary(cmd.Context(), input)
		if err != nil {
			return err
		}
		fmt.Printf("Added to your library (%s).\n", entry.ID)
		return nil
	},
}

var libraryUpdateCmd = &cobra.Command{
	Use:   "update <entry-id>",
	Short: "Update status, hours, or rating of a library entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		gameID, _ := cmd.Flags().GetString("game")
		input, err := libraryInputFromFlags(cmd, gameID)
		if err != nil {
			return err
		}

		entry, err := rt.client.UpdateLibraryEntry(cmd.Context(), args[0], input)
		if err != nil {
			return err
		}
		fmt.Printf("Updated. Status is now %s.\n", entry.Status)
		return nil
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Remove a game from your library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		if err := rt.client.RemoveFromLibrary(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Removed.")
		return nil
	},
}

func libraryInputFromFlags(cmd *cobra.Command, gameID string) (api.LibraryInput, error) {
	status, _ := cmd.Flags().GetString("status")
	hours, _ := cmd.Flags().GetFloat64("hours")
	rating, _ := cmd.Flags().GetInt("rating")

	input := api.LibraryInput{
		GameID:         gameID,
		Status:         status,
		HoursPlayed:    hours,
		PersonalRating: rating,
	}
	if err := validate.Struct(input); err != nil {
		return api.LibraryInput{}, err
	}
	return input, nil
}

func addLibraryFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", api.StatusPending, "play status (Pendiente, Jugando, Completado)")
	cmd.Flags().Float64("hours", 0, "hours played")
	cmd.Flags().Int("rating", 0, "personal rating from 1 to 10")
}

func init() {
	addLibraryFlags(libraryAddCmd)
	addLibraryFlags(libraryUpdateCmd)
	libraryUpdateCmd.Flags().String("game", "", "game id of the entry")

	libraryCmd.AddCommand(libraryListCmd, libraryAddCmd, libraryUpdateCmd, libraryRemoveCmd)
	rootCmd.AddCommand(libraryCmd)
}
