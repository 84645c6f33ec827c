package commands

import (
	"encoding/json"
	"fmt"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/internal/command/core"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the slash command definitions sent to Discord as JSON",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			reg, err := opts.staticRegistry(c)
			if err != nil {
				return err
			}

			var defs []*discordgo.ApplicationCommand
			for _, rc := range reg.GetAll() {
				if def := command.Definition(rc); def != nil {
					defs = append(defs, def)
				}
			}

			enc := json.NewEncoder(c.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(defs)
		},
	}
}

func newDocsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Print the commands reference in Markdown",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			reg, err := opts.staticRegistry(c)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), core.BuildHelp(reg))
			return err
		},
	}
}
