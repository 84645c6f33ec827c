package middleware

import (
	"context"
	"time"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/internal/storage"
	"github.com/ardaslegends/legends-bot/pkg/cmd"

	"github.com/rs/zerolog"
)

// WithCommandLogger logs every run and appends it to the guild's command history.
func WithCommandLogger(logger zerolog.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			v, ok := inv.Data.(*command.SlashInteractionContext)
			if !ok || v.Interaction == nil {
				return err
			}
			in := v.Interaction

			// Internal failures are logged at error level by command.Dispatch.
			evt := logger.Info()
			if err != nil {
				evt = logger.Warn().Err(err)
			}
			evt.Str("command", in.Command).
				Str("subcommand", in.Subcommand).
				Str("guild", in.GuildID).
				Str("user", in.UserID).
				Dur("took", time.Since(start)).
				Msg("Command executed")

			if v.Storage != nil && in.GuildID != "" {
				entry := storage.CommandHistory{
					ChannelID: in.ChannelID,
					GuildID:   in.GuildID,
					UserID:    in.UserID,
					Username:  in.Username,
					Command:   in.Path(),
					Failed:    err != nil,
					Datetime:  start.UTC(),
				}
				if e := v.Storage.AppendCommandHistory(in.GuildID, entry); e != nil {
					logger.Warn().Err(e).Str("command", in.Path()).Msg("Failed to log command")
				}
			}
			return err
		})
	}
}
