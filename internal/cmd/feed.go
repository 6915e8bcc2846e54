package cmd

import (
	"github.com/penfolio/penfolio-cli/pkg/feed"
	"github.com/penfolio/penfolio-cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	feedPage      int
	feedQuery     string
	feedFollowing bool
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the blog feed",
	Long:  "List every blog or only blogs by people you follow, nine per page",
	RunE: func(cmd *cobra.Command, args []string) error {
		tab := feed.TabAll
		if feedFollowing {
			tab = feed.TabFollowing
		}
		return service.NewFeedService(env).List(cmd.Context(), service.FeedOptions{
			Tab:   tab,
			Page:  feedPage,
			Query: feedQuery,
		})
	},
}

var feedLikeCmd = &cobra.Command{
	Use:   "like <blog-id>",
	Short: "Like or unlike a blog from the feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewFeedService(env).Like(cmd.Context(), args[0])
	},
}

func init() {
	feedCmd.Flags().IntVarP(&feedPage, "page", "p", 1, "Page number")
	feedCmd.Flags().StringVarP(&feedQuery, "search", "s", "", "Only blogs matching this text or author")
	feedCmd.Flags().BoolVarP(&feedFollowing, "following", "f", false, "Only blogs by people you follow")

	feedCmd.AddCommand(feedLikeCmd)
}
