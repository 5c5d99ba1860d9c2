package command

import (
	"fmt"

	"shohorbari/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Read your notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unread notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, _, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		items, err := httpClient.UnreadNotifications(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load notifications: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("🔔 No unread notifications")
			return nil
		}
		for i := range items {
			client.PrintMessage(&client.PushMessage{Type: "notification", Notification: &items[i], Timestamp: items[i].CreatedAt})
		}
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, _, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		n, err := httpClient.MarkAllRead(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("✓ %d notification(s) marked as read\n", n)
		return nil
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print notifications as they arrive (Ctrl+C to stop)",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, creds, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("🔌 Listening for notifications...")
		err = client.WatchNotifications(cmd.Context(), apiURL, creds.AccessToken, client.PrintMessage)
		if err != nil {
			return err
		}
		color.HiBlack("connection closed")
		return nil
	},
}

func init() {
	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd, notificationsWatchCmd)
}
