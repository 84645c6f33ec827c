// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardaslegends/legends-bot/internal/commands"
	"github.com/ardaslegends/legends-bot/internal/config"
	"github.com/ardaslegends/legends-bot/internal/discord"
	"github.com/ardaslegends/legends-bot/internal/logging"
	"github.com/ardaslegends/legends-bot/internal/storage"
	"github.com/ardaslegends/legends-bot/pkg/cmd"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.New()

	logger := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, JSON: cfg.LogJSON})
	logging.Install(logger)
	log.Info().Str("guild", cfg.DiscordGuildID).Msg("Starting legends bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	bot, err := discord.NewBot(cfg, store, cmd.DefaultRegistry, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}
	if err := commands.Register(cmd.DefaultRegistry, bot.Roles(), cfg.DiscordGuildID, logger); err != nil {
		log.Fatal().Err(err).Msg("Failed to register commands")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Discord bot error")
		}
		cancel()
	}

	log.Info().Msg("Discord bot exited cleanly")
}
