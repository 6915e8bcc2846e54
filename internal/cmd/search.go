package cmd

import (
	"strings"

	"github.com/penfolio/penfolio-cli/pkg/service"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search users by username",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSearchService(env).Users(cmd.Context(), strings.Join(args, " "))
	},
}
