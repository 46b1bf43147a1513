package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the immutable configuration the process starts with. The four
// credential fields are required; the rest have defaults.
type Config struct {
	TelegramToken   string
	TrelloAPIKey    string
	TrelloToken     string
	TrelloBoardID   string
	DefaultListName string
	ServerPort      string
}

var requiredKeys = []string{
	"TELEGRAM_BOT_TOKEN",
	"TRELLO_API_KEY",
	"TRELLO_TOKEN",
	"TRELLO_BOARD_ID",
}

// Load reads configuration from the environment, with an optional config.toml
// in the working directory as fallback. It fails before any network activity
// when a required key is unset, naming every missing key.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.AutomaticEnv()

	v.SetDefault("DEFAULT_LIST_NAME", "Todo")
	v.SetDefault("SERVER_PORT", "8080")

	var missing []string
	for _, key := range requiredKeys {
		if v.GetString(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return &Config{
		TelegramToken:   v.GetString("TELEGRAM_BOT_TOKEN"),
		TrelloAPIKey:    v.GetString("TRELLO_API_KEY"),
		TrelloToken:     v.GetString("TRELLO_TOKEN"),
		TrelloBoardID:   v.GetString("TRELLO_BOARD_ID"),
		DefaultListName: v.GetString("DEFAULT_LIST_NAME"),
		ServerPort:      v.GetString("SERVER_PORT"),
	}, nil
}
