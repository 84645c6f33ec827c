package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrUnknownSubcommand means the runtime delivered a subcommand that no
	// handler was declared for. It points at a schema/handler mismatch.
	ErrUnknownSubcommand = errors.New("unknown subcommand")

	// ErrSchemaMismatch is returned at startup when a command declaration is
	// incomplete or ambiguous.
	ErrSchemaMismatch = errors.New("command schema mismatch")

	// ErrRoleNotFound is returned by RoleFinder when no role has the given name.
	ErrRoleNotFound = errors.New("role not found")

	// ErrUnsupportedContext is returned when a command is run with an
	// invocation payload it does not understand.
	ErrUnsupportedContext = errors.New("unsupported invocation context")

	// ErrReplyFailed wraps a failed reply send. The interaction may already
	// be answered, so no further reply is attempted.
	ErrReplyFailed = errors.New("reply failed")
)

// GenericErrorMessage is what callers see when a command fails internally.
const GenericErrorMessage = "Something went wrong while running this command."

// Interaction is one slash command invocation, already flattened out of the
// transport's event. Handlers only read it.
type Interaction struct {
	GuildID    string
	ChannelID  string
	UserID     string
	Username   string
	Command    string
	Subcommand string
	Options    map[string]string
}

// String returns the value of a string option, or "" when it was not supplied.
func (i *Interaction) String(name string) string {
	if i == nil || i.Options == nil {
		return ""
	}
	return i.Options[name]
}

// Path is the command as typed, e.g. "disband army".
func (i *Interaction) Path() string {
	if i.Subcommand == "" {
		return i.Command
	}
	return i.Command + " " + i.Subcommand
}

// Reply is the single message a handler answers with.
type Reply struct {
	Content   string
	Ephemeral bool
	// AllowedRoleIDs lists role mentions in Content that should ping.
	AllowedRoleIDs []string
}

// Handler executes one subcommand (or one flat command).
type Handler interface {
	Execute(ctx context.Context, in *Interaction) (*Reply, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, in *Interaction) (*Reply, error)

// Execute calls f.
func (f HandlerFunc) Execute(ctx context.Context, in *Interaction) (*Reply, error) {
	return f(ctx, in)
}

// Responder sends the reply for one interaction.
type Responder interface {
	Reply(ctx context.Context, r *Reply) error
}

// RoleFinder resolves a role by its exact display name within a guild.
// Implementations return ErrRoleNotFound when there is no match.
type RoleFinder interface {
	FindRoleByName(ctx context.Context, guildID, name string) (*discordgo.Role, error)
}

// UserError is an error whose message is meant for the person who ran the
// command, not for the logs.
type UserError interface {
	error
	UserMessage() string
}

// ErrorReply builds the reply sent back when a command fails.
// User errors keep their message, anything else gets GenericErrorMessage.
func ErrorReply(err error) *Reply {
	var ue UserError
	if errors.As(err, &ue) {
		return &Reply{Content: ue.UserMessage(), Ephemeral: true}
	}
	return &Reply{Content: GenericErrorMessage, Ephemeral: true}
}

// IsUserError reports whether err carries a caller-facing message.
func IsUserError(err error) bool {
	var ue UserError
	return errors.As(err, &ue)
}

// ReplyError answers a failed interaction through r.
func ReplyError(ctx context.Context, r Responder, err error) error {
	if r == nil {
		return fmt.Errorf("no responder for error reply: %w", err)
	}
	return r.Reply(ctx, ErrorReply(err))
}
