package cmd

import (
	"github.com/penfolio/penfolio-cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	blogTitle   string
	blogContent string
	blogImage   string
	blogForce   bool
)

var blogCmd = &cobra.Command{
	Use:     "blog",
	Aliases: []string{"blogs"},
	Short:   "Blog commands",
	Long:    "Write, read, like and comment on blogs",
}

var blogCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new blog",
	Long:  "Publish a blog. Title and content are prompted for when not given; the image must be under 5MB.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBlogService(env).Create(cmd.Context(), blogTitle, blogContent, blogImage)
	},
}

var blogEditCmd = &cobra.Command{
	Use:   "edit <blog-id>",
	Short: "Edit one of your blogs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBlogService(env).Edit(cmd.Context(), args[0], blogTitle, blogContent, blogImage)
	},
}

var blogDeleteCmd = &cobra.Command{
	Use:   "delete <blog-id>",
	Short: "Delete one of your blogs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBlogService(env).Delete(cmd.Context(), args[0], blogForce)
	},
}

var blogShowCmd = &cobra.Command{
	Use:   "show <blog-id>",
	Short: "Show a blog with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBlogService(env).Show(cmd.Context(), args[0])
	},
}

var blogLikeCmd = &cobra.Command{
	Use:   "like <blog-id>",
	Short: "Like or unlike a blog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBlogService(env).Like(cmd.Context(), args[0])
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment commands",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <blog-id> [text]",
	Short: "Comment on a blog",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := ""
		if len(args) > 1 {
			text = args[1]
		}
		return service.NewBlogService(env).Comment(cmd.Context(), args[0], text)
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <blog-id> <comment-id>",
	Short: "Delete a comment you wrote or one on your blog",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBlogService(env).DeleteComment(cmd.Context(), args[0], args[1])
	},
}

var commentLikeCmd = &cobra.Command{
	Use:   "like <blog-id> <comment-id>",
	Short: "Like or unlike a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBlogService(env).LikeComment(cmd.Context(), args[0], args[1])
	},
}

func init() {
	for _, c := range []*cobra.Command{blogCreateCmd, blogEditCmd} {
		c.Flags().StringVarP(&blogTitle, "title", "t", "", "Blog title")
		c.Flags().StringVarP(&blogContent, "content", "c", "", "Blog content")
		c.Flags().StringVarP(&blogImage, "image", "i", "", "Path to an image to attach")
	}
	blogDeleteCmd.Flags().BoolVarP(&blogForce, "force", "f", false, "Skip confirmation")

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentDeleteCmd)
	commentCmd.AddCommand(commentLikeCmd)

	blogCmd.AddCommand(blogCreateCmd)
	blogCmd.AddCommand(blogEditCmd)
	blogCmd.AddCommand(blogDeleteCmd)
	blogCmd.AddCommand(blogShowCmd)
	blogCmd.AddCommand(blogLikeCmd)
	blogCmd.AddCommand(commentCmd)
}
