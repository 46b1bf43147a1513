package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAllRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg-token")
	t.Setenv("TRELLO_API_KEY", "key")
	t.Setenv("TRELLO_TOKEN", "token")
	t.Setenv("TRELLO_BOARD_ID", "board123")
}

func TestLoad(t *testing.T) {
	setAllRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tg-token", cfg.TelegramToken)
	assert.Equal(t, "key", cfg.TrelloAPIKey)
	assert.Equal(t, "token", cfg.TrelloToken)
	assert.Equal(t, "board123", cfg.TrelloBoardID)
	assert.Equal(t, "Todo", cfg.DefaultListName)
	assert.Equal(t, "8080", cfg.ServerPort)
}

func TestLoadOverridesDefaults(t *testing.T) {
	setAllRequired(t)
	t.Setenv("DEFAULT_LIST_NAME", "Backlog")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Backlog", cfg.DefaultListName)
	assert.Equal(t, "9090", cfg.ServerPort)
}

func TestLoadMissingKeysAreNamed(t *testing.T) {
	setAllRequired(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TRELLO_BOARD_ID", "")

	_, err := Load()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, err.Error(), "TRELLO_BOARD_ID")
	assert.NotContains(t, err.Error(), "TRELLO_API_KEY")
}
