package commands

import (
	"fmt"
	"os"

	"github.com/absolutepraya/siasisten-bot/lib/configutil"
	"github.com/absolutepraya/siasisten-bot/lib/serviceutil"
	"github.com/absolutepraya/siasisten-bot/lib/telemetry"
)

type DiscordConfig struct {
	Token   string `json:"token"`
	Guild   string `json:"guild"`
	Channel string `json:"channel"`
}

type PortalConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Config struct {
	Discord               DiscordConfig    `json:"discord"`
	Portal                PortalConfig     `json:"portal"`
	DataFile              string           `json:"data_file"`
	UpdateIntervalMinutes int              `json:"update_interval_minutes"`
	Telemetry             telemetry.Config `json:"telemetry"`
}

// loadConfig reads config.json5 (plus config.local.json5 overrides)
// and then lets the original environment variables override secrets,
// so a dotenv-style deployment still works without a config file.
func loadConfig() Config {
	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	applyEnv(&config)

	if config.Portal.BaseUrl == "" {
		config.Portal.BaseUrl = "https://siasisten.cs.ui.ac.id"
	}
	if config.DataFile == "" {
		config.DataFile = "data.json"
	}
	if config.UpdateIntervalMinutes <= 0 {
		config.UpdateIntervalMinutes = 30
	}
	return config
}

func applyEnv(config *Config) {
	overrides := []struct {
		name   string
		target *string
	}{
		{"DISCORD_TOKEN", &config.Discord.Token},
		{"DISCORD_GUILD", &config.Discord.Guild},
		{"DISCORD_CHANNEL", &config.Discord.Channel},
		{"SSO_USN", &config.Portal.Username},
		{"SSO_PASS", &config.Portal.Password},
	}
	for _, o := range overrides {
		if value := os.Getenv(o.name); value != "" {
			*o.target = value
		}
	}
}

func requirePortalCredentials(config Config) {
	if config.Portal.Username == "" || config.Portal.Password == "" {
		serviceutil.Fatal(
			"missing portal credentials",
			fmt.Errorf("set SSO_USN and SSO_PASS or portal.username/portal.password in config.json5"),
		)
	}
}
