package command

import (
	"fmt"
	"strconv"

	"shohorbari/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Send and manage rent requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list [ad-id]",
	Short: "List the rent requests of one of your advertisements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid advertisement ID: %w", err)
		}
		httpClient, _, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		reqs, err := httpClient.ListRequests(cmd.Context(), adID)
		if err != nil {
			return fmt.Errorf("failed to list rent requests: %w", err)
		}
		printRequests(reqs)
		return nil
	},
}

var requestsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the rent requests you have sent",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, _, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		reqs, err := httpClient.MyRequests(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list rent requests: %w", err)
		}
		printRequests(reqs)
		return nil
	},
}

var requestsSendCmd = &cobra.Command{
	Use:   "send [ad-id]",
	Short: "Ask the owner of an advertisement to rent it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid advertisement ID: %w", err)
		}
		message, _ := cmd.Flags().GetString("message")

		httpClient, _, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		rr, err := httpClient.SendRequest(cmd.Context(), adID, message)
		if err != nil {
			return fmt.Errorf("failed to send rent request: %w", err)
		}
		color.Green("✓ Rent request %d sent", rr.ID)
		return nil
	},
}

var requestsAcceptCmd = &cobra.Command{
	Use:   "accept [ad-id] [request-id]",
	Short: "Accept a rent request; the other open requests are closed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		adID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid advertisement ID: %w", err)
		}
		requestID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid request ID: %w", err)
		}
		httpClient, _, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		rr, err := httpClient.AcceptRequest(cmd.Context(), adID, requestID)
		if err != nil {
			return fmt.Errorf("failed to accept rent request: %w", err)
		}
		color.Green("✓ Rent request %d accepted", rr.ID)
		return nil
	},
}

func printRequests(reqs []client.RentRequestResponse) {
	if len(reqs) == 0 {
		fmt.Println("No rent requests.")
		return
	}
	for _, rr := range reqs {
		var status string
		switch rr.Status {
		case "accepted":
			status = color.GreenString(rr.Status)
		case "closed":
			status = color.HiBlackString(rr.Status)
		default:
			status = color.YellowString(rr.Status)
		}
		fmt.Printf("#%d ad %d from user %d [%s] %s\n", rr.ID, rr.Advertisement, rr.Sender, status, rr.CreatedAt.Format("2006-01-02 15:04"))
		if rr.Message != "" {
			fmt.Printf("    %s\n", rr.Message)
		}
	}
}

func init() {
	requestsCmd.AddCommand(requestsListCmd, requestsMineCmd, requestsSendCmd, requestsAcceptCmd)
	requestsSendCmd.Flags().StringP("message", "m", "", "Message to the owner")
}
