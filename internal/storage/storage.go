// Package storage keeps the bot's own bookkeeping per guild: recent command
// history and the hashes of the slash commands last pushed to Discord.
package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/ardaslegends/legends-bot/datastore"
	"github.com/rs/zerolog"
)

const commandHistoryLimit = 20

type Storage struct {
	ds *datastore.DataStore
	// mu serialises read-modify-write of guild records.
	mu sync.Mutex
}

type CommandHistory struct {
	ChannelID string    `json:"channel_id"`
	GuildID   string    `json:"guild_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Failed    bool      `json:"failed,omitempty"`
	Datetime  time.Time `json:"datetime"`
}

type Record struct {
	CommandsHistory []CommandHistory  `json:"cmd_history"`
	CommandHashes   map[string]string `json:"cmd_hashes"`
}

// New opens (or creates) the JSON store at filePath.
func New(filePath string, logger zerolog.Logger) (*Storage, error) {
	cfg := datastore.DefaultConfig(filePath)
	cfg.Logger = logger.With().Str("component", "datastore").Logger()

	ds, err := datastore.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// DeleteGuild forgets everything kept for a guild.
func (s *Storage) DeleteGuild(guildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds.Delete(guildID)
}

func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	found, err := s.ds.Decode(guildID, &record)
	if err != nil {
		return nil, fmt.Errorf("decode guild record %s: %w", guildID, err)
	}
	if !found {
		record = Record{}
	}
	if record.CommandsHistory == nil {
		record.CommandsHistory = []CommandHistory{}
	}
	if record.CommandHashes == nil {
		record.CommandHashes = map[string]string{}
	}
	return &record, nil
}

func (s *Storage) updateGuildRecord(guildID string, fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	fn(record)
	return s.ds.Add(guildID, record)
}
