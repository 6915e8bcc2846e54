package cmd

import (
	"strings"

	"github.com/penfolio/penfolio-cli/pkg/service"
	"github.com/spf13/cobra"
)

var contactsFilter string

var messageCmd = &cobra.Command{
	Use:     "message",
	Aliases: []string{"msg", "dm"},
	Short:   "Direct message commands",
	Long:    "Message the people you follow",
}

var messageContactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List people you can message",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewMessageService(env).Contacts(cmd.Context(), contactsFilter)
	},
}

var messageThreadCmd = &cobra.Command{
	Use:   "thread <username>",
	Short: "Show the conversation with a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewMessageService(env).Thread(cmd.Context(), args[0])
	},
}

var messageSendCmd = &cobra.Command{
	Use:   "send <username> <text...>",
	Short: "Send a message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewMessageService(env).Send(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var messageChatCmd = &cobra.Command{
	Use:   "chat <username>",
	Short: "Open an interactive conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewMessageService(env).Chat(cmd.Context(), args[0])
	},
}

func init() {
	messageContactsCmd.Flags().StringVar(&contactsFilter, "filter", "", "Only usernames containing this text")

	messageCmd.AddCommand(messageContactsCmd)
	messageCmd.AddCommand(messageThreadCmd)
	messageCmd.AddCommand(messageSendCmd)
	messageCmd.AddCommand(messageChatCmd)
}
