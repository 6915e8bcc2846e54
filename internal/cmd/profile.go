package cmd

import (
	"github.com/penfolio/penfolio-cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	profileDescription string
	profilePicture     string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile commands",
	Long:  "View profiles, edit your own and manage who you follow",
}

var profileShowCmd = &cobra.Command{
	Use:   "show [username]",
	Short: "Show a profile and its blogs (yours when no username is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(env).Show(cmd.Context(), optionalArg(args))
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your description or picture",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(env).Edit(cmd.Context(), profileDescription, profilePicture)
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <username>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(env).Follow(cmd.Context(), args[0])
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <username>",
	Short: "Unfollow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(env).Unfollow(cmd.Context(), args[0])
	},
}

var followersCmd = &cobra.Command{
	Use:   "followers [username]",
	Short: "List followers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(env).Followers(cmd.Context(), optionalArg(args))
	},
}

var followingCmd = &cobra.Command{
	Use:   "following [username]",
	Short: "List followed users",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(env).Following(cmd.Context(), optionalArg(args))
	},
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	profileEditCmd.Flags().StringVarP(&profileDescription, "description", "d", "", "New description")
	profileEditCmd.Flags().StringVarP(&profilePicture, "picture", "p", "", "Path to a new profile picture")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(followCmd)
	profileCmd.AddCommand(unfollowCmd)
	profileCmd.AddCommand(followersCmd)
	profileCmd.AddCommand(followingCmd)
}
