package command

import (
	"context"
	"fmt"

	"github.com/ardaslegends/legends-bot/internal/storage"
	"github.com/ardaslegends/legends-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// SlashInteractionContext is what the runtime passes as cmd.Invocation.Data
// when executing a slash command.
type SlashInteractionContext struct {
	Interaction *Interaction
	Responder   Responder
	// Storage is optional; the CLI runs without one.
	Storage *storage.Storage
}

// SlashProvider exposes the schema registered with Discord.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// DiscordCommand is what Group and Flat implement.
type DiscordCommand interface {
	SlashProvider
	Name() string
	Description() string
	Dispatch(ctx context.Context, in *Interaction) (*Reply, error)
}

// DiscordAdapter adapts a DiscordCommand to cmd.Command so it can live in the
// universal registry. It forwards SlashDefinition so the runtime can reach the
// schema through cmd.Root.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string        { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string { return a.Cmd.Description() }

func (a *DiscordAdapter) SlashDefinition() *discordgo.ApplicationCommand {
	return a.Cmd.SlashDefinition()
}

// Run dispatches the interaction and sends the handler's reply. Errors are
// returned unsent; the runtime decides how to answer them.
func (a *DiscordAdapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, ok := inv.Data.(*SlashInteractionContext)
	if !ok || sc.Interaction == nil {
		return fmt.Errorf("%w: %T", ErrUnsupportedContext, inv.Data)
	}

	reply, err := a.Cmd.Dispatch(ctx, sc.Interaction)
	if err != nil {
		return err
	}
	if reply == nil {
		return fmt.Errorf("/%s returned no reply", sc.Interaction.Path())
	}
	if err := sc.Responder.Reply(ctx, reply); err != nil {
		return fmt.Errorf("send reply for /%s: %w: %w", sc.Interaction.Path(), ErrReplyFailed, err)
	}
	return nil
}

// RegisterCommand registers a Discord command with reg and applies middlewares.
func RegisterCommand(reg *cmd.Registry, dc DiscordCommand, mws ...cmd.Middleware) error {
	return reg.Register(cmd.Apply(&DiscordAdapter{Cmd: dc}, mws...))
}

// Definition returns the slash schema of a registered command, walking through
// middleware wrappers.
func Definition(c cmd.Command) *discordgo.ApplicationCommand {
	if sp, ok := cmd.Root(c).(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// NewInteraction flattens an application command event into an Interaction.
// The event must be of type InteractionApplicationCommand.
func NewInteraction(i *discordgo.InteractionCreate) *Interaction {
	data := i.ApplicationCommandData()

	in := &Interaction{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Command:   data.Name,
		Options:   map[string]string{},
	}
	if u := interactionUser(i); u != nil {
		in.UserID = u.ID
		in.Username = u.Username
	}

	opts := data.Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		in.Subcommand = opts[0].Name
		opts = opts[0].Options
	}
	for _, o := range opts {
		if o.Type == discordgo.ApplicationCommandOptionString {
			in.Options[o.Name] = o.StringValue()
			continue
		}
		in.Options[o.Name] = fmt.Sprint(o.Value)
	}
	return in
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// Categorized is implemented by commands listed under a /help section.
type Categorized interface {
	Category() string
}

// Category delegates to the inner command when it is Categorized.
func (a *DiscordAdapter) Category() string {
	if c, ok := a.Cmd.(Categorized); ok {
		return c.Category()
	}
	return ""
}

// CategoryOf returns the /help section of a registered command, or "".
func CategoryOf(c cmd.Command) string {
	if cc, ok := cmd.Root(c).(Categorized); ok {
		return cc.Category()
	}
	return ""
}
