package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gametracker/gametracker/internal/api"
	"github.com/gametracker/gametracker/internal/validate"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Read and write game reviews",
}

var reviewsListCmd = &cobra.Command{
	Use:   "list [game-id]",
	Short: "List reviews, optionally for a single game",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		var reviews []api.Review
		if len(args) == 1 {
			reviews, err = rt.client.ListGameReviews(cmd.Context(), args[0])
		} else {
			reviews, err = rt.client.ListReviews(cmd.Context())
		}
		if err != nil {
			return err
		}

		if len(reviews) == 0 {
			fmt.Println("No reviews yet.")
			return nil
		}
		for _, review := range reviews {
			author := "anonymous"
			if review.Author != nil {
				author = review.Author.Username
			}
			fmt.Printf("%s  %d/10 by %s\n  %s\n", review.ID, review.Rating, author, review.Text)
		}
		return nil
	},
}

var reviewsAddCmd = &cobra.Command{
	Use:   "add <game-id>",
	Short: "Write a review for a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		rating, _ := cmd.Flags().GetInt("rating")
		text, _ := cmd.Flags().GetString("text")

		input := api.ReviewInput{GameID: args[0], Rating: rating, Text: text}
		if err := validate.Struct(input); err != nil {
			return err
		}

		review, err := rt.client.CreateReview(cmd.Context(), input)
		if err != nil {
			return err
		}
		fmt.Printf("Review published (%s).\n", review.ID)
		return nil
	},
}

var reviewsUpdateCmd = &cobra.Command{
	Use:   "update <review-id>",
	Short: "Edit one of your reviews",
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
		rating, _ := cmd.Flags().GetInt("rating")
		text, _ := cmd.Flags().GetString("text")

		input := api.ReviewInput{GameID: gameID, Rating: rating, Text: text}
		if err := validate.Struct(input); err != nil {
			return err
		}

		if _, err := rt.client.UpdateReview(cmd.Context(), args[0], input); err != nil {
			return err
		}
		fmt.Println("Review updated.")
		return nil
	},
}

var reviewsDeleteCmd = &cobra.Command{
	Use:   "delete <review-id>",
	Short: "Delete one of your reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		if err := rt.client.DeleteReview(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Review deleted.")
		return nil
	},
}

func init() {
	reviewsAddCmd.Flags().Int("rating", 0, "rating from 1 to 10")
	reviewsAddCmd.Flags().String("text", "", "review text")
	reviewsUpdateCmd.Flags().String("game", "", "game id the review belongs to")
	reviewsUpdateCmd.Flags().Int("rating", 0, "rating from 1 to 10")
	reviewsUpdateCmd.Flags().String("text", "", "review text")

	reviewsCmd.AddCommand(reviewsListCmd, reviewsAddCmd, reviewsUpdateCmd, reviewsDeleteCmd)
	rootCmd.AddCommand(reviewsCmd)
}
