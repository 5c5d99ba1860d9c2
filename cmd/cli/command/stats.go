package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the admin dashboard counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, _, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		s, err := httpClient.DashboardStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load dashboard stats: %w", err)
		}
		fmt.Printf("Advertisements:   %d\n", s.TotalAds)
		fmt.Printf("  approved:       %d\n", s.ApprovedAds)
		fmt.Printf("  pending:        %d\n", s.PendingAds)
		fmt.Printf("Last 7 days:      %d\n", s.AdsLast7Days)
		fmt.Printf("This month:       %d\n", s.AdsCurrentMonth)
		fmt.Printf("Last month:       %d\n", s.AdsLastMonth)
		return nil
	},
}
