package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"DISCORD_TOKEN": "secret"})
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.DiscordToken)
	assert.Equal(t, DefaultGuildID, cfg.DiscordGuildID)
	assert.True(t, cfg.InitSlashCommands)
	assert.Equal(t, "data/datastore.json", cfg.StoragePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DiscordGuildBlacklist)
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"DISCORD_TOKEN":           "secret",
		"DISCORD_GUILD_ID":        "42",
		"DISCORD_GUILD_BLACKLIST": "1,2,3",
		"INIT_SLASH_COMMANDS":     "false",
		"STORAGE_PATH":            "/tmp/store.json",
		"LOG_LEVEL":               "debug",
		"LOG_FILE":                "/tmp/bot.log",
	})
	require.NoError(t, err)

	assert.Equal(t, "42", cfg.DiscordGuildID)
	assert.Equal(t, []string{"1", "2", "3"}, cfg.DiscordGuildBlacklist)
	assert.False(t, cfg.InitSlashCommands)
	assert.Equal(t, "/tmp/store.json", cfg.StoragePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/bot.log", cfg.LogFile)
}

func TestLoadFromRequiresToken(t *testing.T) {
	_, err := LoadFrom(map[string]string{})
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LEGENDS_TEST_VALUE=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LEGENDS_TEST_VALUE") })

	LoadDotEnv(path)
	assert.Equal(t, "from-dotenv", os.Getenv("LEGENDS_TEST_VALUE"))
}

func TestCategoryWeight(t *testing.T) {
	assert.Less(t, CategoryWeight(CategoryInformation), CategoryWeight(CategoryWarfare))
	assert.Equal(t, 1000, CategoryWeight("unknown"))
}
