// Package core holds commands about the bot itself.
package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/internal/config"
	"github.com/ardaslegends/legends-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

const HelpCommandName = "help"

// New declares /help, listing every command registered in reg.
func New(reg *cmd.Registry) (*command.Flat, error) {
	f, err := command.NewFlat(HelpCommandName, "Get a list of available commands", nil,
		command.HandlerFunc(func(_ context.Context, _ *command.Interaction) (*command.Reply, error) {
			return &command.Reply{Content: BuildHelp(reg), Ephemeral: true}, nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return f.WithCategory(config.CategoryInformation), nil
}

// BuildHelp renders the registry grouped by category.
func BuildHelp(reg *cmd.Registry) string {
	byCategory := make(map[string][]cmd.Command)
	for _, c := range reg.GetAll() {
		cat := command.CategoryOf(c)
		byCategory[cat] = append(byCategory[cat], c)
	}

	cats := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, wj := config.CategoryWeight(cats[i]), config.CategoryWeight(cats[j])
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})

	var sb strings.Builder
	for _, cat := range cats {
		if cat != "" {
			fmt.Fprintf(&sb, "**%s**\n", cat)
		}
		for _, c := range byCategory[cat] {
			writeCommand(&sb, c)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func writeCommand(sb *strings.Builder, c cmd.Command) {
	def := command.Definition(c)
	if def == nil {
		fmt.Fprintf(sb, "`/%s` - %s\n", c.Name(), c.Description())
		return
	}

	hasSub := false
	for _, o := range def.Options {
		if o.Type != discordgo.ApplicationCommandOptionSubCommand {
			continue
		}
		hasSub = true
		fmt.Fprintf(sb, "`/%s %s%s` - %s\n", def.Name, o.Name, optionList(o.Options), o.Description)
	}
	if !hasSub {
		fmt.Fprintf(sb, "`/%s%s` - %s\n", def.Name, optionList(def.Options), def.Description)
	}
}

func optionList(opts []*discordgo.ApplicationCommandOption) string {
	var sb strings.Builder
	for _, o := range opts {
		if o.Required {
			fmt.Fprintf(&sb, " <%s>", o.Name)
		} else {
			fmt.Fprintf(&sb, " [%s]", o.Name)
		}
	}
	return sb.String()
}
