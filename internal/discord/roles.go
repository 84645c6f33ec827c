package discord

import (
	"context"
	"fmt"

	"github.com/ardaslegends/legends-bot/internal/command"

	"github.com/bwmarrin/discordgo"
)

// StateRoleFinder looks roles up in the session's state cache and falls back
// to a REST fetch when the guild is not cached.
type StateRoleFinder struct {
	State *discordgo.State
	// Fetch is optional.
	Fetch func(ctx context.Context, guildID string) ([]*discordgo.Role, error)
}

// NewStateRoleFinder reads s.State and fetches through s.GuildRoles.
func NewStateRoleFinder(s *discordgo.Session) *StateRoleFinder {
	return &StateRoleFinder{
		State: s.State,
		Fetch: func(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
			return s.GuildRoles(guildID, discordgo.WithContext(ctx))
		},
	}
}

func (f *StateRoleFinder) FindRoleByName(ctx context.Context, guildID, name string) (*discordgo.Role, error) {
	roles, cached := f.cachedRoles(guildID)
	if !cached {
		if f.Fetch == nil {
			return nil, fmt.Errorf("%w: guild %s is not cached", command.ErrRoleNotFound, guildID)
		}
		fetched, err := f.Fetch(ctx, guildID)
		if err != nil {
			return nil, fmt.Errorf("fetch roles of guild %s: %w", guildID, err)
		}
		roles = fetched
	}

	for _, r := range roles {
		if r != nil && r.Name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in guild %s", command.ErrRoleNotFound, name, guildID)
}

// cachedRoles copies the guild's roles out of the state cache.
func (f *StateRoleFinder) cachedRoles(guildID string) ([]*discordgo.Role, bool) {
	if f.State == nil {
		return nil, false
	}
	g, err := f.State.Guild(guildID)
	if err != nil {
		return nil, false
	}

	f.State.RLock()
	defer f.State.RUnlock()
	roles := make([]*discordgo.Role, len(g.Roles))
	copy(roles, g.Roles)
	return roles, true
}
