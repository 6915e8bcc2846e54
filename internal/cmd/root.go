package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/client"
	"github.com/penfolio/penfolio-cli/pkg/config"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/output"
	"github.com/penfolio/penfolio-cli/pkg/service"
	"github.com/penfolio/penfolio-cli/pkg/session"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
	apiURL     string

	env *service.Env
)

var rootCmd = &cobra.Command{
	Use:   "penfolio",
	Short: "PenFolio CLI - write, share and discuss blogs",
	Long: `PenFolio CLI is a command-line client for the PenFolio blogging
platform. Publish blogs, follow writers, react to posts and chat with
the people you follow from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		if outputFmt != "" {
			if !output.ValidateOutputFormat(outputFmt) {
				return clierrors.ValidationError(fmt.Sprintf("Unknown output format %q", outputFmt)).
					WithSuggestion("Use one of: text, table, json, yaml.")
			}
			config.Set("output.format", outputFmt)
		}
		if apiURL != "" {
			config.Set("api.base_url", apiURL)
		}

		logger.Init(verbose)
		client.Init()

		sess, err := session.NewManager(session.NewFileStore(config.GetSessionPath()))
		if err != nil {
			return fmt.Errorf("error loading session: %w", err)
		}
		env = service.NewEnv(api.Default(), sess)
		return nil
	},
}

// Execute runs the command tree. Ctrl+C cancels the running command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprint(os.Stderr, clierrors.FormatError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/penfolio/cli/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "Output format: text, table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API server URL (overrides api.base_url)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(blogCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
