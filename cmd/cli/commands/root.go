// Package commands implements the legends CLI: run slash commands offline,
// print their Discord schema, and print the commands reference.
package commands

import (
	"fmt"

	"github.com/ardaslegends/legends-bot/internal/command"
	botcommands "github.com/ardaslegends/legends-bot/internal/commands"
	"github.com/ardaslegends/legends-bot/internal/config"
	"github.com/ardaslegends/legends-bot/internal/logging"
	"github.com/ardaslegends/legends-bot/pkg/cmd"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	guildID  string
	roles    map[string]string
	live     bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "legends",
		Short:        "Run and inspect the legends bot slash commands locally",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.guildID, "guild", config.DefaultGuildID, "Guild whose faction roles are used")
	root.PersistentFlags().StringToStringVar(&opts.roles, "role", nil, "Offline faction role as Name=ID, repeatable")
	root.PersistentFlags().BoolVar(&opts.live, "live", false, "Fetch faction roles from Discord using DISCORD_TOKEN")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newSchemaCmd(opts))
	root.AddCommand(newDocsCmd(opts))
	return root
}

func (o *rootOptions) logger(c *cobra.Command) zerolog.Logger {
	return logging.New(logging.Options{Level: o.logLevel, Console: c.ErrOrStderr()})
}

// roleFinder returns the finder selected by the flags.
func (o *rootOptions) roleFinder() (command.RoleFinder, error) {
	if !o.live {
		return newStaticRoles(o.roles), nil
	}
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return newRESTRoles(cfg.DiscordToken)
}

// registry builds a fresh registry holding every slash command.
func (o *rootOptions) registry(c *cobra.Command) (*cmd.Registry, error) {
	roles, err := o.roleFinder()
	if err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}
	reg := cmd.NewRegistry()
	if err := botcommands.Register(reg, roles, o.guildID, o.logger(c)); err != nil {
		return nil, err
	}
	return reg, nil
}

// staticRegistry is used by commands that never resolve roles.
func (o *rootOptions) staticRegistry(c *cobra.Command) (*cmd.Registry, error) {
	reg := cmd.NewRegistry()
	if err := botcommands.Register(reg, newStaticRoles(nil), o.guildID, o.logger(c)); err != nil {
		return nil, err
	}
	return reg, nil
}
