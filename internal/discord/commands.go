package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ardaslegends/legends-bot/internal/command"
	"github.com/ardaslegends/legends-bot/pkg/cmd"
	"github.com/ardaslegends/legends-bot/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// commandAPI is the part of *discordgo.Session the syncer talks to.
type commandAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// hashStore persists the hashes of the commands last pushed to a guild.
type hashStore interface {
	CommandHashes(guildID string) (map[string]string, error)
	SetCommandHashes(guildID string, hashes map[string]string) error
}

// commandSyncer keeps a guild's slash commands in line with the registry:
// obsolete commands are deleted, changed or missing ones are (re)created.
type commandSyncer struct {
	api     commandAPI
	hashes  hashStore
	limiter *retrylimit.AdaptiveLimiter
	retry   retrylimit.RetryConfig
	log     zerolog.Logger
}

func newCommandSyncer(api commandAPI, hashes hashStore, logger zerolog.Logger) *commandSyncer {
	retry := retrylimit.DefaultRetryConfig()
	retry.Logger = logger
	return &commandSyncer{
		api:     api,
		hashes:  hashes,
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
		retry:   retry,
		log:     logger,
	}
}

// definitions returns the slash schema of every registered command.
func definitions(reg *cmd.Registry) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range reg.GetAll() {
		if def := command.Definition(c); def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}

// Sync pushes defs to the guild. Failures of single commands are collected
// and returned together; the hashes of the commands that made it are saved.
func (s *commandSyncer) Sync(ctx context.Context, appID, guildID string, defs []*discordgo.ApplicationCommand) error {
	log := s.log.With().Str("guild", guildID).Logger()

	var remote []*discordgo.ApplicationCommand
	err := s.do(ctx, func() error {
		var err error
		remote, err = s.api.ApplicationCommands(appID, guildID, discordgo.WithContext(ctx))
		return err
	})
	if err != nil {
		return fmt.Errorf("list commands of guild %s: %w", guildID, err)
	}
	remoteByName := make(map[string]*discordgo.ApplicationCommand, len(remote))
	for _, rc := range remote {
		remoteByName[rc.Name] = rc
	}

	cached := map[string]string{}
	if s.hashes != nil {
		if h, err := s.hashes.CommandHashes(guildID); err != nil {
			log.Warn().Err(err).Msg("Failed to load command hashes, registering everything")
		} else if h != nil {
			cached = h
		}
	}

	local := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		local[d.Name] = struct{}{}
	}

	var errs []error
	for name, rc := range remoteByName {
		if _, ok := local[name]; ok {
			continue
		}
		log.Info().Str("command", name).Msg("Deleting obsolete command")
		err := s.do(ctx, func() error {
			return s.api.ApplicationCommandDelete(appID, guildID, rc.ID, discordgo.WithContext(ctx))
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("delete /%s: %w", name, err))
			continue
		}
		delete(cached, name)
	}

	registered := 0
	for _, d := range defs {
		h := hashCommand(d)
		if _, exists := remoteByName[d.Name]; exists && cached[d.Name] == h {
			continue
		}
		err := s.do(ctx, func() error {
			_, err := s.api.ApplicationCommandCreate(appID, guildID, d, discordgo.WithContext(ctx))
			return err
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("register /%s: %w", d.Name, err))
			continue
		}
		cached[d.Name] = h
		registered++
		log.Debug().Str("command", d.Name).Msg("Registered command")
	}

	if registered > 0 {
		log.Info().Int("count", registered).Msg("Registered changed commands")
	}
	if s.hashes != nil {
		if err := s.hashes.SetCommandHashes(guildID, cached); err != nil {
			errs = append(errs, fmt.Errorf("save command hashes: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *commandSyncer) do(ctx context.Context, fn func() error) error {
	return retrylimit.WithRetryConfig(ctx, func() error {
		return classify(fn())
	}, s.limiter, s.retry)
}

// restStatusError exposes the status code of a discordgo REST error to retrylimit.
type restStatusError struct {
	err *discordgo.RESTError
}

func (e *restStatusError) Error() string { return e.err.Error() }
func (e *restStatusError) Unwrap() error { return e.err }

func (e *restStatusError) StatusCode() int {
	if e.err.Response == nil {
		return 0
	}
	return e.err.Response.StatusCode
}

// classify marks client errors other than 429 as fatal.
func classify(err error) error {
	var rest *discordgo.RESTError
	if err == nil || !errors.As(err, &rest) {
		return err
	}
	wrapped := &restStatusError{err: rest}
	code := wrapped.StatusCode()
	if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return retrylimit.Fatal(wrapped)
	}
	return wrapped
}
