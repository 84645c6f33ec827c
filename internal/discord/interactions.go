package discord

import (
	"context"

	"github.com/ardaslegends/legends-bot/internal/command"

	"github.com/bwmarrin/discordgo"
)

// interactionResponder answers one interaction through the session.
type interactionResponder struct {
	s *discordgo.Session
	i *discordgo.Interaction
}

func (r *interactionResponder) Reply(ctx context.Context, reply *command.Reply) error {
	return r.s.InteractionRespond(r.i, responseFor(reply), discordgo.WithContext(ctx))
}

// responseFor builds the interaction response for a reply. Mentions only ping
// the roles the reply explicitly allows.
func responseFor(reply *command.Reply) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{
		Content: reply.Content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
			Roles: reply.AllowedRoleIDs,
		},
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}
