// Package heal implements /heal stop.
package heal

import (
	"context"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/internal/config"
	"github.com/ardaslegends/legends-bot/internal/names"
)

const (
	CommandName    = "heal"
	SubStop        = "stop"
	OptionArmyName = "army-name"
)

func stop(_ context.Context, in *command.Interaction) (*command.Reply, error) {
	return &command.Reply{Content: names.Canonical(in.String(OptionArmyName)) + " has stopped healing."}, nil
}

func New() (*command.Group, error) {
	g, err := command.NewGroup(CommandName, "Manages the healing of armies",
		command.Subcommand{
			Name:        SubStop,
			Description: "Stops an army from healing",
			Options: []command.Option{
				{Name: OptionArmyName, Description: "The name of the army", Required: true},
			},
			Handler: command.HandlerFunc(stop),
		},
	)
	if err != nil {
		return nil, err
	}
	return g.WithCategory(config.CategoryArmies), nil
}
