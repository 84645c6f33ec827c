package disband

import (
	"context"
	"testing"

	"github.com/ardaslegends/legends-bot/internal/command"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, sub, option, value string) (*command.Reply, error) {
	t.Helper()
	g, err := New()
	require.NoError(t, err)
	return g.Dispatch(context.Background(), &command.Interaction{
		Command:    CommandName,
		Subcommand: sub,
		Options:    map[string]string{option: value},
	})
}

func TestDisbandReplies(t *testing.T) {
	tests := []struct {
		sub, option, value, want string
	}{
		{SubArmy, OptionArmyName, "iron guard", `The army "Iron Guard" has been disbanded.`},
		{SubTrader, OptionTraderName, "silver road traders", `The trader company "Silver Road Traders" has been disbanded.`},
		{SubArmedCompany, OptionArmedCompanyName, "roseguard trading company", `The armed company "Roseguard Trading Company" has been disbanded.`},
		{SubArmy, OptionArmyName, "  THE   black HOST ", `The army "The Black Host" has been disbanded.`},
	}
	for _, tt := range tests {
		t.Run(tt.sub+"/"+tt.value, func(t *testing.T) {
			reply, err := run(t, tt.sub, tt.option, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply.Content)
			assert.False(t, reply.Ephemeral)
		})
	}
}

func TestDisbandTraderMentionsNormalizedName(t *testing.T) {
	reply, err := run(t, SubTrader, OptionTraderName, "silver road traders")
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "Silver Road Traders")
	assert.Contains(t, reply.Content, "disbanded")
}

func TestDisbandUnknownSubcommand(t *testing.T) {
	_, err := run(t, "fleet", "fleet-name", "x")
	assert.ErrorIs(t, err, command.ErrUnknownSubcommand)
	assert.False(t, command.IsUserError(err))
}

func TestDisbandSchema(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	def := g.SlashDefinition()
	assert.Equal(t, CommandName, def.Name)
	assert.Equal(t, discordgo.ChatApplicationCommand, def.Type)

	want := map[string]string{
		SubArmy:         OptionArmyName,
		SubTrader:       OptionTraderName,
		SubArmedCompany: OptionArmedCompanyName,
	}
	require.Len(t, def.Options, len(want))
	for _, sub := range def.Options {
		assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, sub.Type)
		require.Len(t, sub.Options, 1, sub.Name)
		assert.Equal(t, want[sub.Name], sub.Options[0].Name)
		assert.True(t, sub.Options[0].Required)
		assert.Equal(t, discordgo.ApplicationCommandOptionString, sub.Options[0].Type)
	}
}
