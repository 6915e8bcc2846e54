package cmd

import (
	"github.com/penfolio/penfolio-cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	loginUsername  string
	loginPassword  string
	signupUsername string
	logoutForce    bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Sign in to PenFolio, create an account or end the session",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to PenFolio",
	Long:  "Authenticate with username and password. Missing values are prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env).Login(cmd.Context(), loginUsername, loginPassword)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup [email]",
	Short: "Create a new PenFolio account",
	Long:  "Send a one-time password to your email, verify it, then choose a username and password.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		return service.NewAuthService(env).Signup(cmd.Context(), email, signupUsername)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from PenFolio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env).Logout(logoutForce)
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Display the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(env).WhoAmI()
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	signupCmd.Flags().StringVarP(&signupUsername, "username", "u", "", "Username for the new account")
	logoutCmd.Flags().BoolVarP(&logoutForce, "force", "f", false, "Skip confirmation")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
}
