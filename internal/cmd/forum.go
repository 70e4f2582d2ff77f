package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/gametracker/gametracker/internal/api"
	"github.com/gametracker/gametracker/internal/validate"
)

var forumCmd = &cobra.Command{
	Use:   "forum",
	Short: "Read and take part in the community forum",
}

var forumListCmd = &cobra.Command{
	Use:   "list",
	Short: "List forum posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		params := url.Values{}
		if category, _ := cmd.Flags().GetString("category"); category != "" {
			params.Set("categoria", category)
		}
		if search, _ := cmd.Flags().GetString("search"); search != "" {
			params.Set("search", search)
		}

		posts, err := rt.client.ListPosts(cmd.Context(), params)
		if err != nil {
			return err
		}

		if len(posts) == 0 {
			fmt.Println("No posts found.")
			return nil
		}
		for _, post := range posts {
			marker := " "
			if post.Pinned {
				marker = "*"
			}
			author := ""
			if post.Author != nil {
				author = " by " + post.Author.Username
			}
			fmt.Printf("%s %s  %s%s (%d comments, %d likes)\n",
				marker, post.ID, post.Title, author, post.CommentCount, len(post.Likes))
		}
		return nil
	},
}

var forumShowCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show a post with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		post, err := rt.client.GetPost(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		author := "anonymous"
		if post.Author != nil {
			author = post.Author.Username
		}
		fmt.Printf("%s\n[%s] by %s · %d views · %d likes\n\n%s\n",
			post.Title, post.Category, author, post.Views, len(post.Likes), post.Content)

		comments, err := rt.client.ListComments(cmd.Context(), post.ID)
		if err != nil {
			return err
		}
		if len(comments) > 0 {
			fmt.Printf("\nComments (%d):\n", len(comments))
			for _, comment := range comments {
				printComment(comment, 1)
			}
		}
		return nil
	},
}

func printComment(comment api.ForumComment, depth int) {
	author := "anonymous"
	if comment.Author != nil {
		author = comment.Author.Username
	}
	suffix := ""
	if comment.Edited {
		suffix = " (edited)"
	}
	for i := 0; i < depth; i++ {
		fmt.Print("  ")
	}
	fmt.Printf("%s%s: %s\n", author, suffix, comment.Content)
	for _, reply := range comment.Replies {
		printComment(reply, depth+1)
	}
}

var forumPostCmd = &cobra.Command{
	Use:   "post",
	Short: "Create a new post",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		category, _ := cmd.Flags().GetString("category")
		tags, _ := cmd.Flags().GetStringSlice("tags")

		input := api.PostInput{Title: title, Content: content, Category: category, Tags: tags}
		if err := validate.Struct(input); err != nil {
			return err
		}

		post, err := rt.client.CreatePost(cmd.Context(), input)
		if err != nil {
			return err
		}
		fmt.Printf("Posted (%s).\n", post.ID)
		return nil
	},
}

var forumCommentCmd = &cobra.Command{
	Use:   "comment <post-id>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		content, _ := cmd.Flags().GetString("content")
		parent, _ := cmd.Flags().GetString("reply-to")

		input := api.CommentInput{PostID: args[0], Content: content, ParentID: parent}
		if err := validate.Struct(input); err != nil {
			return err
		}

		if _, err := rt.client.CreateComment(cmd.Context(), input); err != nil {
			return err
		}
		fmt.Println("Comment added.")
		return nil
	},
}

var forumLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Toggle your like on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		post, err := rt.client.ToggleLikePost(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s now has %d likes.\n", post.Title, len(post.Likes))
		return nil
	},
}

var forumDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		if err := rt.client.DeletePost(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Post deleted.")
		return nil
	},
}

func init() {
	forumListCmd.Flags().String("category", "", "filter by category")
	forumListCmd.Flags().String("search", "", "full-text search")

	forumPostCmd.Flags().String("title", "", "post title")
	forumPostCmd.Flags().String("content", "", "post body")
	forumPostCmd.Flags().String("category", "general", "post category")
	forumPostCmd.Flags().StringSlice("tags", nil, "comma-separated tags")

	forumCommentCmd.Flags().String("content", "", "comment text")
	forumCommentCmd.Flags().String("reply-to", "", "comment id to reply to")

	forumCmd.AddCommand(forumListCmd, forumShowCmd, forumPostCmd, forumCommentCmd, forumLikeCmd, forumDeleteCmd)
	rootCmd.AddCommand(forumCmd)
}
