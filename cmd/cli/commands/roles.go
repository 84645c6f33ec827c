package commands

import (
	"context"
	"fmt"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/internal/discord"

	"github.com/bwmarrin/discordgo"
)

// staticRoles resolves roles given on the command line.
type staticRoles map[string]string

func newStaticRoles(byName map[string]string) staticRoles {
	return staticRoles(byName)
}

func (r staticRoles) FindRoleByName(_ context.Context, guildID, name string) (*discordgo.Role, error) {
	id, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in guild %s", command.ErrRoleNotFound, name, guildID)
	}
	return &discordgo.Role{ID: id, Name: name}, nil
}

// newRESTRoles fetches roles over REST without opening a gateway connection.
func newRESTRoles(token string) (command.RoleFinder, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return discord.NewStateRoleFinder(s), nil
}
