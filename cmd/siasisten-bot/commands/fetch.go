package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/absolutepraya/siasisten-bot/lib/scrapers/siasisten"
	"github.com/absolutepraya/siasisten-bot/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Logs in and prints the current lowongan listing once.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		config := loadConfig()
		requirePortalCredentials(config)

		client, err := siasisten.NewClient(ctx, siasisten.ClientOptions{
			BaseUrl:  config.Portal.BaseUrl,
			Username: config.Portal.Username,
			Password: config.Portal.Password,
		})
		if err != nil {
			serviceutil.Fatal("failed to log in to the portal", err)
		}

		entries, err := client.FetchLowongan(ctx)
		if err != nil {
			serviceutil.Fatal("failed to fetch listing", err)
		}

		for _, e := range entries {
			fmt.Printf("%s\n  %s\n", e.Title, e.DaftarLink)
			if e.Stats != nil {
				fmt.Printf("  %d/%d diterima, %d pelamar\n",
					e.Stats.SlotsFilled, e.Stats.SlotsTotal, e.Stats.ApplicantCount)
			}
		}
		fmt.Printf("%d lowongan\n", len(entries))
	},
}
