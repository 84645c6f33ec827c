package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardaslegends/legends-bot/pkg/cmd"

	"github.com/rs/zerolog"
)

// ErrUnknownCommand means no command is registered under the invoked name.
var ErrUnknownCommand = errors.New("unknown command")

// Dispatch runs the registered command named by sc.Interaction. Failures are
// answered through sc.Responder: user errors with their own message, anything
// else is logged and answered generically. A failed reply send is only
// logged. The run error is returned.
func Dispatch(ctx context.Context, reg *cmd.Registry, sc *SlashInteractionContext, logger zerolog.Logger) error {
	in := sc.Interaction

	c, ok := reg.Get(in.Command)
	if !ok {
		err := fmt.Errorf("%w: /%s", ErrUnknownCommand, in.Command)
		logger.Error().Err(err).Str("guild", in.GuildID).Msg("Unknown command")
		if rerr := ReplyError(ctx, sc.Responder, err); rerr != nil {
			logger.Error().Err(rerr).Msg("Failed to send error reply")
		}
		return err
	}

	err := c.Run(ctx, &cmd.Invocation{Data: sc})
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrReplyFailed) {
		logger.Error().Err(err).Str("command", in.Path()).Msg("Failed to send reply")
		return err
	}

	if !IsUserError(err) {
		logger.Error().Err(err).
			Str("command", in.Command).
			Str("subcommand", in.Subcommand).
			Msg("Command failed")
	}
	if rerr := ReplyError(ctx, sc.Responder, err); rerr != nil {
		logger.Error().Err(rerr).Str("command", in.Path()).Msg("Failed to send error reply")
	}
	return err
}
