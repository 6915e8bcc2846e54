package cmd

import (
	"time"

	"github.com/penfolio/penfolio-cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	notifUnread     bool
	notifKeepUnread bool
	notifForce      bool
	notifInterval   time.Duration
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Notification commands",
	Long:    "View and manage notifications about likes, comments and new followers",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications and mark them read",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env).List(cmd.Context(), notifUnread, notifKeepUnread)
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Mark all notifications as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env).MarkRead(cmd.Context())
	},
}

var notificationsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env).Clear(cmd.Context(), notifForce)
	},
}

var notificationsOpenCmd = &cobra.Command{
	Use:   "open <notification-id>",
	Short: "Show the blog or profile a notification refers to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env).Open(cmd.Context(), args[0])
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll for new notifications",
	Long:  "Print notifications as they arrive. Polls every notifications.poll_interval seconds unless --interval is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewNotificationService(env).Watch(cmd.Context(), notifInterval)
	},
}

func init() {
	notificationsListCmd.Flags().BoolVar(&notifUnread, "unread", false, "Only show unread notifications")
	notificationsListCmd.Flags().BoolVar(&notifKeepUnread, "keep-unread", false, "Do not mark listed notifications as read")
	notificationsClearCmd.Flags().BoolVarP(&notifForce, "force", "f", false, "Skip confirmation")
	notificationsWatchCmd.Flags().DurationVar(&notifInterval, "interval", 0, "Poll interval, e.g. 30s")

	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsClearCmd)
	notificationsCmd.AddCommand(notificationsOpenCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)
}
