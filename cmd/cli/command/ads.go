package command

import (
	"fmt"
	"strconv"
	"strings"

	"shohorbari/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var adsCmd = &cobra.Command{
	Use:   "ads",
	Short: "Browse and moderate advertisements",
}

var adsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List advertisements",
	RunE: func(cmd *cobra.Command, args []string) error {
		var q client.AdQuery
		q.Search, _ = cmd.Flags().GetString("search")
		q.Category, _ = cmd.Flags().GetInt64("category")
		q.Ordering, _ = cmd.Flags().GetString("ordering")
		q.Page, _ = cmd.Flags().GetInt("page")
		q.PageSize, _ = cmd.Flags().GetInt("page-size")
		if cmd.Flags().Changed("approved") {
			approved, _ := cmd.Flags().GetBool("approved")
			q.Approved = &approved
		}

		// listing is public, a stored session is optional
		httpClient, _, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			httpClient = client.NewHTTPClient(apiURL)
		}

		page, err := httpClient.ListAds(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("failed to list advertisements: %w", err)
		}
		if len(page.Data) == 0 {
			fmt.Println("No advertisements found.")
			return nil
		}

		fmt.Printf("Advertisements (page %d of %d, %d total):\n\n", page.Page, page.TotalPages, page.Total)
		printAds(page.Data)
		return nil
	},
}

var adsPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List advertisements waiting for approval (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, _, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		ads, err := httpClient.PendingAds(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list pending advertisements: %w", err)
		}
		if len(ads) == 0 {
			fmt.Println("Nothing waiting for approval.")
			return nil
		}
		fmt.Printf("Pending advertisements (%d):\n\n", len(ads))
		printAds(ads)
		return nil
	},
}

var adsApproveCmd = &cobra.Command{
	Use:   "approve [ad-id]",
	Short: "Approve an advertisement (admin)",
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
		ad, err := httpClient.ApproveAd(cmd.Context(), adID)
		if err != nil {
			return fmt.Errorf("failed to approve advertisement: %w", err)
		}
		color.Green("✓ Advertisement %d approved: %s", ad.ID, ad.Title)
		return nil
	},
}

func printAds(ads []client.AdvertisementResponse) {
	for _, ad := range ads {
		status := color.GreenString("approved")
		if !ad.Approved {
			status = color.YellowString("pending")
		}
		fmt.Printf("ID: %d | %s | %s\n", ad.ID, ad.Title, status)
		fmt.Printf("Price: %s | Owner: %d | Posted: %s\n", ad.Price, ad.Owner, ad.CreatedAt.Format("2006-01-02"))
		fmt.Println(strings.Repeat("-", 50))
	}
}

func init() {
	adsCmd.AddCommand(adsListCmd, adsPendingCmd, adsApproveCmd)

	adsListCmd.Flags().StringP("search", "s", "", "Search in title and description")
	adsListCmd.Flags().Int64("category", 0, "Category ID")
	adsListCmd.Flags().Bool("approved", true, "Only approved (true) or only pending (false) advertisements")
	adsListCmd.Flags().String("ordering", "", "price, -price, created_at or -created_at")
	adsListCmd.Flags().Int("page", 1, "Page number")
	adsListCmd.Flags().Int("page-size", 10, "Results per page")
}
