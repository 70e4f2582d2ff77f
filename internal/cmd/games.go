package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gametracker/gametracker/internal/api"
	"github.com/gametracker/gametracker/internal/validate"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Browse and manage the game catalog",
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the game catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		games, err := rt.client.ListGames(cmd.Context())
		if err != nil {
			return err
		}

		if len(games) == 0 {
			fmt.Println("The catalog is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tGENRE\tPLATFORM")
		for _, game := range games {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", game.ID, game.Name, game.Genre, game.Platform)
		}
		return w.Flush()
	},
}

var gamesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one game with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		game, err := rt.client.GetGame(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s, %s)\n", game.Name, game.Genre, game.Platform)
		if game.Developer != "" {
			fmt.Printf("Developer: %s\n", game.Developer)
		}
		if !game.ReleaseDate.IsZero() {
			fmt.Printf("Released:  %s\n", game.ReleaseDate.Format("2006-01-02"))
		}
		if game.Description != "" {
			fmt.Printf("\n%s\n", game.Description)
		}

		reviews, err := rt.client.ListGameReviews(cmd.Context(), game.ID)
		if err != nil {
			rt.logger.WithError(err).Warn("could not load reviews")
			return nil
		}
		if len(reviews) > 0 {
			fmt.Printf("\nReviews (%d):\n", len(reviews))
			for _, review := range reviews {
				author := "anonymous"
				if review.Author != nil {
					author = review.Author.Username
				}
				fmt.Printf("  %d/10 by %s: %s\n", review.Rating, author, review.Text)
			}
		}
		return nil
	},
}

var gamesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a game to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		input, err := gameInputFromFlags(cmd)
		if err != nil {
			return err
		}

		game, err := rt.client.CreateGame(cmd.Context(), input)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s).\n", game.Name, game.ID)
		return nil
	},
}

var gamesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		input, err := gameInputFromFlags(cmd)
		if err != nil {
			return err
		}

		game, err := rt.client.UpdateGame(cmd.Context(), args[0], input)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s.\n", game.Name)
		return nil
	},
}

var gamesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a game from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		if err := rt.client.DeleteGame(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func gameInputFromFlags(cmd *cobra.Command) (api.GameInput, error) {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	genre, _ := cmd.Flags().GetString("genre")
	platform, _ := cmd.Flags().GetString("platform")
	developer, _ := cmd.Flags().GetString("developer")
	cover, _ := cmd.Flags().GetString("cover")

	input := api.GameInput{
		Name:        name,
		Description: description,
		Genre:       genre,
		Platform:    platform,
		Developer:   developer,
		CoverURL:    cover,
	}
	if err := validate.Struct(input); err != nil {
		return api.GameInput{}, err
	}
	return input, nil
}

func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "game title")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().String("genre", "", "genre")
	cmd.Flags().String("platform", "", "platform")
	cmd.Flags().String("developer", "", "developer")
	cmd.Flags().String("cover", "", "cover image URL")
}

func init() {
	addGameFlags(gamesAddCmd)
	addGameFlags(gamesUpdateCmd)

	gamesCmd.AddCommand(gamesListCmd, gamesShowCmd, gamesAddCmd, gamesUpdateCmd, gamesDeleteCmd)
	rootCmd.AddCommand(gamesCmd)
}
