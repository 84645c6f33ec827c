package middleware

import (
	"context"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/pkg/cmd"
)

const guildOnlyMessage = "This command can only be used in a server."

// WithGuildOnly rejects invocations that did not come from a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			v, ok := inv.Data.(*command.SlashInteractionContext)
			if ok && v.Interaction != nil && v.Interaction.GuildID == "" {
				return v.Responder.Reply(ctx, &command.Reply{Content: guildOnlyMessage, Ephemeral: true})
			}
			return c.Run(ctx, inv)
		})
	}
}
