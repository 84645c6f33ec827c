package storage

// AppendCommandHistory records a command run, keeping only the most recent entries.
func (s *Storage) AppendCommandHistory(guildID string, entry CommandHistory) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		r.CommandsHistory = append(r.CommandsHistory, entry)
		if over := len(r.CommandsHistory) - commandHistoryLimit; over > 0 {
			r.CommandsHistory = r.CommandsHistory[over:]
		}
	})
}

func (s *Storage) GetCommandsHistory(guildID string) ([]CommandHistory, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistory, nil
}

// CommandHashes returns the hashes of the slash commands last registered for a guild.
func (s *Storage) CommandHashes(guildID string) (map[string]string, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandHashes, nil
}

// SetCommandHashes replaces the registered command hashes of a guild and
// flushes them, so a restart does not re-register everything.
func (s *Storage) SetCommandHashes(guildID string, hashes map[string]string) error {
	err := s.updateGuildRecord(guildID, func(r *Record) {
		r.CommandHashes = make(map[string]string, len(hashes))
		for name, h := range hashes {
			r.CommandHashes[name] = h
		}
	})
	if err != nil {
		return err
	}
	return s.ds.SaveToFile()
}
