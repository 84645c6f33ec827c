// Package commands builds the command registry the bot and the CLI share.
package commands

import (
	"fmt"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/internal/command/core"
	"github.com/ardaslegends/legends-bot/internal/command/disband"
	"github.com/ardaslegends/legends-bot/internal/command/heal"
	"github.com/ardaslegends/legends-bot/internal/command/war"
	"github.com/ardaslegends/legends-bot/internal/middleware"
	"github.com/ardaslegends/legends-bot/pkg/cmd"

	"github.com/rs/zerolog"
)

// Register adds every slash command to reg. War declarations look faction
// roles up through roles in the guild guildID.
func Register(reg *cmd.Registry, roles command.RoleFinder, guildID string, logger zerolog.Logger) error {
	declareWar, err := war.New(roles, guildID)
	if err != nil {
		return err
	}
	disbandCmd, err := disband.New()
	if err != nil {
		return err
	}
	healCmd, err := heal.New()
	if err != nil {
		return err
	}
	help, err := core.New(reg)
	if err != nil {
		return err
	}

	mws := []cmd.Middleware{
		middleware.WithGuildOnly(),
		middleware.WithCommandLogger(logger),
	}
	for _, dc := range []command.DiscordCommand{declareWar, disbandCmd, healCmd, help} {
		if err := command.RegisterCommand(reg, dc, mws...); err != nil {
			return fmt.Errorf("register /%s: %w", dc.Name(), err)
		}
	}
	return nil
}
