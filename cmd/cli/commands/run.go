package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ardaslegends/legends-bot/internal/command"

	"github.com/spf13/cobra"
)

// stdoutResponder prints replies instead of sending them.
type stdoutResponder struct {
	w io.Writer
}

func (r *stdoutResponder) Reply(_ context.Context, reply *command.Reply) error {
	if reply.Ephemeral {
		_, err := fmt.Fprintf(r.w, "(only visible to you) %s\n", reply.Content)
		return err
	}
	_, err := fmt.Fprintln(r.w, reply.Content)
	return err
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var options map[string]string

	c := &cobra.Command{
		Use:   "run <command> [subcommand]",
		Short: "Run a slash command and print its reply",
		Example: `  legends run disband army --opt army-name="knights of dol amroth"
  legends run declare-war --opt attacker-faction=gondor --opt defender-faction=mordor \
      --role Gondor=1 --role Mordor=2`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(c *cobra.Command, args []string) error {
			reg, err := opts.registry(c)
			if err != nil {
				return err
			}

			in := &command.Interaction{
				GuildID: opts.guildID,
				UserID:  "cli",
				Command: args[0],
				Options: map[string]string{},
			}
			if len(args) == 2 {
				in.Subcommand = args[1]
			}
			for k, v := range options {
				in.Options[k] = v
			}

			return command.Dispatch(c.Context(), reg, &command.SlashInteractionContext{
				Interaction: in,
				Responder:   &stdoutResponder{w: c.OutOrStdout()},
			}, opts.logger(c))
		},
	}
	c.Flags().StringToStringVar(&options, "opt", nil, "Command option as name=value, repeatable")
	return c
}
