// Package disband implements /disband army|trader|armed-company.
package disband

import (
	"context"
	"fmt"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/internal/config"
	"github.com/ardaslegends/legends-bot/internal/names"
)

const (
	CommandName = "disband"

	SubArmy         = "army"
	SubTrader       = "trader"
	SubArmedCompany = "armed-company"

	OptionArmyName         = "army-name"
	OptionTraderName       = "trader-name"
	OptionArmedCompanyName = "armed-company-name"
)

// replyWith answers with template filled in with the normalized option value.
func replyWith(option, template string) command.HandlerFunc {
	return func(_ context.Context, in *command.Interaction) (*command.Reply, error) {
		return &command.Reply{Content: fmt.Sprintf(template, names.Canonical(in.String(option)))}, nil
	}
}

// New declares /disband. The armed-company variant only confirms; splitting the
// company and unbinding its character is left to whoever keeps the entities.
func New() (*command.Group, error) {
	g, err := command.NewGroup(CommandName, "Disbands an entity (trader, army etc.)",
		command.Subcommand{
			Name:        SubArmy,
			Description: "Disbands an army",
			Options: []command.Option{
				{Name: OptionArmyName, Description: "The name of the army", Required: true},
			},
			Handler: replyWith(OptionArmyName, `The army "%s" has been disbanded.`),
		},
		command.Subcommand{
			Name:        SubTrader,
			Description: "Disbands a trader company",
			Options: []command.Option{
				{Name: OptionTraderName, Description: "The name of the trader company", Required: true},
			},
			Handler: replyWith(OptionTraderName, `The trader company "%s" has been disbanded.`),
		},
		command.Subcommand{
			Name:        SubArmedCompany,
			Description: "Breaks the armed company into separate trader and army. Character gets unbound.",
			Options: []command.Option{
				{Name: OptionArmedCompanyName, Description: "The name of the armed company", Required: true},
			},
			Handler: replyWith(OptionArmedCompanyName, `The armed company "%s" has been disbanded.`),
		},
	)
	if err != nil {
		return nil, err
	}
	return g.WithCategory(config.CategoryArmies), nil
}
