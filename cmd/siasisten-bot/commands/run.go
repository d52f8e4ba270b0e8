package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/absolutepraya/siasisten-bot/lib/lowonganstore"
	"github.com/absolutepraya/siasisten-bot/lib/scrapers/siasisten"
	"github.com/absolutepraya/siasisten-bot/lib/serviceutil"
	"github.com/absolutepraya/siasisten-bot/lib/telemetry"
	"github.com/absolutepraya/siasisten-bot/services/bot"
	"github.com/absolutepraya/siasisten-bot/services/watcher"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Starts the lowongan watcher bot.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := loadConfig()
		requirePortalCredentials(config)
		if config.Discord.Token == "" || config.Discord.Channel == "" {
			serviceutil.Fatal(
				"missing discord configuration",
				fmt.Errorf("set DISCORD_TOKEN and DISCORD_CHANNEL or the discord section in config.json5"),
			)
		}

		tel, err := telemetry.Setup(ctx, "siasisten-bot", config.Telemetry)
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer tel.Shutdown(context.Background())

		store := lowonganstore.NewStore(config.DataFile)
		store.Load()

		// a failed login degrades the bot to manual commands reporting
		// the scraper as unavailable, it does not abort startup
		var scraper watcher.Scraper
		client, err := siasisten.NewClient(ctx, siasisten.ClientOptions{
			BaseUrl:  config.Portal.BaseUrl,
			Username: config.Portal.Username,
			Password: config.Portal.Password,
		})
		if err != nil {
			slog.Error("failed to log in, scraping disabled", "err", err)
		} else {
			scraper = client
		}

		service := watcher.NewService(scraper, store)
		b, err := bot.New(service, bot.Options{
			Token:          config.Discord.Token,
			Guild:          config.Discord.Guild,
			ChannelId:      config.Discord.Channel,
			UpdateInterval: time.Duration(config.UpdateIntervalMinutes) * time.Minute,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize discord session", err)
		}

		if err := b.Run(ctx); err != nil {
			serviceutil.Fatal("failed to run bot", err)
		}
	},
}
