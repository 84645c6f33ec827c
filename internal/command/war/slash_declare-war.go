// Package war implements /declare-war.
package war

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/internal/config"
	"github.com/ardaslegends/legends-bot/internal/names"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandName    = "declare-war"
	OptionAttacker = "attacker-faction"
	OptionDefender = "defender-faction"
)

var (
	ErrFactionNotFound = errors.New("faction not found")
	ErrSameFaction     = errors.New("faction cannot declare war on itself")
)

// FactionNotFoundError reports a faction name with no matching guild role.
type FactionNotFoundError struct {
	Faction string
}

func (e *FactionNotFoundError) Error() string {
	return fmt.Sprintf("faction %q not found", e.Faction)
}

func (e *FactionNotFoundError) Is(target error) bool {
	return target == ErrFactionNotFound || target == command.ErrRoleNotFound
}

func (e *FactionNotFoundError) UserMessage() string {
	return fmt.Sprintf(`Faction role "%s" not found.`, e.Faction)
}

type sameFactionError struct {
	faction string
}

func (e *sameFactionError) Error() string        { return fmt.Sprintf("%s: %s", ErrSameFaction, e.faction) }
func (e *sameFactionError) Unwrap() error        { return ErrSameFaction }
func (e *sameFactionError) UserMessage() string { return "A faction cannot declare war on itself." }

// Handler resolves both factions to roles of a fixed guild and announces the war.
type Handler struct {
	roles   command.RoleFinder
	guildID string
}

func NewHandler(roles command.RoleFinder, guildID string) *Handler {
	return &Handler{roles: roles, guildID: guildID}
}

func (h *Handler) Execute(ctx context.Context, in *command.Interaction) (*command.Reply, error) {
	attacker, err := h.faction(ctx, in.String(OptionAttacker))
	if err != nil {
		return nil, err
	}
	defender, err := h.faction(ctx, in.String(OptionDefender))
	if err != nil {
		return nil, err
	}
	if attacker.ID == defender.ID {
		return nil, &sameFactionError{faction: attacker.Name}
	}

	return &command.Reply{
		Content:        fmt.Sprintf("%s declare war on %s.", attacker.Mention(), defender.Mention()),
		AllowedRoleIDs: []string{attacker.ID, defender.ID},
	}, nil
}

func (h *Handler) faction(ctx context.Context, raw string) (*discordgo.Role, error) {
	name := names.Canonical(raw)
	role, err := h.roles.FindRoleByName(ctx, h.guildID, name)
	switch {
	case errors.Is(err, command.ErrRoleNotFound):
		return nil, &FactionNotFoundError{Faction: name}
	case err != nil:
		return nil, fmt.Errorf("look up faction %q: %w", name, err)
	case role == nil:
		return nil, &FactionNotFoundError{Faction: name}
	}
	return role, nil
}

// New declares /declare-war.
func New(roles command.RoleFinder, guildID string) (*command.Flat, error) {
	f, err := command.NewFlat(CommandName, "Declares war from one faction on another",
		[]command.Option{
			{Name: OptionAttacker, Description: "The faction declaring war", Required: true},
			{Name: OptionDefender, Description: "The faction war is declared on", Required: true},
		},
		NewHandler(roles, guildID),
	)
	if err != nil {
		return nil, err
	}
	return f.WithCategory(config.CategoryWarfare), nil
}
