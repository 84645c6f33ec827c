package discord

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/internal/config"
	"github.com/ardaslegends/legends-bot/internal/storage"
	"github.com/ardaslegends/legends-bot/pkg/cmd"
	"github.com/ardaslegends/legends-bot/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Bot is the Discord runtime: it owns the session, keeps slash commands in
// sync and dispatches interactions to the registry.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	registry *cmd.Registry
	roles    *StateRoleFinder
	syncer   *commandSyncer
	jobs     *jobmgr.Manager
	log      zerolog.Logger

	// ctx is the context passed to Run; event handlers derive from it.
	ctx context.Context
}

// NewBot creates the session without connecting. store may be nil.
func NewBot(cfg *config.Config, store *storage.Storage, reg *cmd.Registry, logger zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	// Guild create and role events keep the state's role cache current.
	dg.Identify.Intents = discordgo.IntentsGuilds

	logger = logger.With().Str("component", "discord").Logger()

	var hashes hashStore
	if store != nil {
		hashes = store
	}

	b := &Bot{
		dg:       dg,
		cfg:      cfg,
		storage:  store,
		registry: reg,
		roles:    NewStateRoleFinder(dg),
		syncer:   newCommandSyncer(dg, hashes, logger),
		jobs:     jobmgr.NewManager(logger),
		log:      logger,
		ctx:      context.Background(),
	}
	return b, nil
}

// Roles resolves roles from the session's state.
func (b *Bot) Roles() command.RoleFinder {
	return b.roles
}

// Run connects and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("Shutdown signal received, closing session")
	b.stopJobs()
	return nil
}

func (b *Bot) stopJobs() {
	b.log.Info().Msg(b.jobs.Status())
	b.jobs.StopAll()
	b.jobs.Wait()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, g := range r.Guilds {
		b.leaveIfBlacklisted(s, g.ID)
	}
	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Int("commands", b.registry.Len()).
		Msg("Discord bot is running")
}

// onGuildCreate fires for every guild after ready and whenever the bot joins one.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if b.leaveIfBlacklisted(s, g.ID) {
		return
	}
	if !b.cfg.InitSlashCommands {
		b.log.Debug().Str("guild", g.ID).Msg("Slash command registration skipped")
		return
	}

	err := b.jobs.StartAsync(b.ctx, syncJobName(g.ID), func(ctx context.Context) error {
		appID, err := b.appID()
		if err != nil {
			return err
		}
		return b.syncer.Sync(ctx, appID, g.ID, definitions(b.registry))
	})
	if errors.Is(err, jobmgr.ErrJobRunning) {
		b.log.Debug().Str("guild", g.ID).Msg("Slash command sync already running")
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().CommandType != discordgo.ChatApplicationCommand {
		return
	}

	sc := &command.SlashInteractionContext{
		Interaction: command.NewInteraction(i),
		Responder:   &interactionResponder{s: s, i: i.Interaction},
		Storage:     b.storage,
	}
	// Dispatch logs and answers failures itself.
	_ = command.Dispatch(b.ctx, b.registry, sc, b.log)
}

// leaveIfBlacklisted leaves the guild when it is blacklisted and reports whether it did.
func (b *Bot) leaveIfBlacklisted(s *discordgo.Session, guildID string) bool {
	if !slices.Contains(b.cfg.DiscordGuildBlacklist, guildID) {
		return false
	}
	b.log.Info().Str("guild", guildID).Msg("Leaving blacklisted guild")
	b.forgetGuild(guildID)
	if err := s.GuildLeave(guildID); err != nil {
		b.log.Error().Err(err).Str("guild", guildID).Msg("Failed to leave guild")
	}
	return true
}

func syncJobName(guildID string) string {
	return "sync-commands:" + guildID
}

// forgetGuild cancels the guild's command sync and drops its bookkeeping.
func (b *Bot) forgetGuild(guildID string) {
	if err := b.jobs.Stop(syncJobName(guildID)); err != nil && !errors.Is(err, jobmgr.ErrJobNotRunning) {
		b.log.Warn().Err(err).Str("guild", guildID).Msg("Failed to stop command sync")
	}
	if b.storage != nil {
		b.storage.DeleteGuild(guildID)
	}
}

// appID returns the bot's application id, fetching it when the state has no user yet.
func (b *Bot) appID() (string, error) {
	if b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}
