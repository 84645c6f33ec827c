package command

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Option declares a string option of a command or subcommand.
type Option struct {
	Name        string
	Description string
	Required    bool
}

// Subcommand declares one subcommand together with the handler serving it.
type Subcommand struct {
	Name        string
	Description string
	Options     []Option
	Handler     Handler
}

// Group is a slash command made of subcommands. Its Discord schema and its
// dispatch table are built from the same declarations, so a declared
// subcommand always has a handler.
type Group struct {
	name        string
	description string
	category    string
	subcommands []Subcommand
	handlers    map[string]Handler
}

// NewGroup validates the declarations and builds the dispatch table once.
func NewGroup(name, description string, subcommands ...Subcommand) (*Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: command without a name", ErrSchemaMismatch)
	}
	if len(subcommands) == 0 {
		return nil, fmt.Errorf("%w: /%s declares no subcommands", ErrSchemaMismatch, name)
	}

	handlers := make(map[string]Handler, len(subcommands))
	for _, sc := range subcommands {
		if sc.Name == "" {
			return nil, fmt.Errorf("%w: /%s has a subcommand without a name", ErrSchemaMismatch, name)
		}
		if sc.Handler == nil {
			return nil, fmt.Errorf("%w: /%s %s has no handler", ErrSchemaMismatch, name, sc.Name)
		}
		if _, dup := handlers[sc.Name]; dup {
			return nil, fmt.Errorf("%w: /%s %s declared twice", ErrSchemaMismatch, name, sc.Name)
		}
		if err := checkOptions(name+" "+sc.Name, sc.Options); err != nil {
			return nil, err
		}
		handlers[sc.Name] = sc.Handler
	}

	return &Group{
		name:        name,
		description: description,
		subcommands: subcommands,
		handlers:    handlers,
	}, nil
}

func (g *Group) Name() string        { return g.name }
func (g *Group) Description() string { return g.description }
func (g *Group) Category() string    { return g.category }

// WithCategory sets the /help section the command is listed under.
func (g *Group) WithCategory(category string) *Group {
	g.category = category
	return g
}

// Subcommands returns the declarations in declaration order.
func (g *Group) Subcommands() []Subcommand { return g.subcommands }

// Dispatch resolves the invoked subcommand and runs its handler.
func (g *Group) Dispatch(ctx context.Context, in *Interaction) (*Reply, error) {
	h, ok := g.handlers[in.Subcommand]
	if !ok {
		return nil, fmt.Errorf("%w: /%s %q", ErrUnknownSubcommand, g.name, in.Subcommand)
	}
	return h.Execute(ctx, in)
}

func (g *Group) SlashDefinition() *discordgo.ApplicationCommand {
	opts := make([]*discordgo.ApplicationCommandOption, 0, len(g.subcommands))
	for _, sc := range g.subcommands {
		opts = append(opts, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        sc.Name,
			Description: sc.Description,
			Options:     stringOptions(sc.Options),
		})
	}
	return &discordgo.ApplicationCommand{
		Name:        g.name,
		Description: g.description,
		Type:        discordgo.ChatApplicationCommand,
		Options:     opts,
	}
}

// Flat is a slash command without subcommands.
type Flat struct {
	name        string
	description string
	category    string
	options     []Option
	handler     Handler
}

// NewFlat declares a command whose options sit directly on the command.
func NewFlat(name, description string, options []Option, handler Handler) (*Flat, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: command without a name", ErrSchemaMismatch)
	}
	if handler == nil {
		return nil, fmt.Errorf("%w: /%s has no handler", ErrSchemaMismatch, name)
	}
	if err := checkOptions(name, options); err != nil {
		return nil, err
	}
	return &Flat{name: name, description: description, options: options, handler: handler}, nil
}

func (f *Flat) Name() string        { return f.name }
func (f *Flat) Description() string { return f.description }
func (f *Flat) Category() string    { return f.category }

// WithCategory sets the /help section the command is listed under.
func (f *Flat) WithCategory(category string) *Flat {
	f.category = category
	return f
}

// Options returns the declared options.
func (f *Flat) Options() []Option { return f.options }

// Dispatch runs the handler. A flat command never receives a subcommand.
func (f *Flat) Dispatch(ctx context.Context, in *Interaction) (*Reply, error) {
	if in.Subcommand != "" {
		return nil, fmt.Errorf("%w: /%s %q", ErrUnknownSubcommand, f.name, in.Subcommand)
	}
	return f.handler.Execute(ctx, in)
}

func (f *Flat) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        f.name,
		Description: f.description,
		Type:        discordgo.ChatApplicationCommand,
		Options:     stringOptions(f.options),
	}
}

func checkOptions(path string, opts []Option) error {
	seen := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		if o.Name == "" {
			return fmt.Errorf("%w: /%s has an option without a name", ErrSchemaMismatch, path)
		}
		if _, dup := seen[o.Name]; dup {
			return fmt.Errorf("%w: /%s option %s declared twice", ErrSchemaMismatch, path, o.Name)
		}
		seen[o.Name] = struct{}{}
	}
	return nil
}

func stringOptions(opts []Option) []*discordgo.ApplicationCommandOption {
	out := make([]*discordgo.ApplicationCommandOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        o.Name,
			Description: o.Description,
			Required:    o.Required,
		})
	}
	return out
}
