// Package main contains the entrypoint for the Xecut relay bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/xecut/xecutbot/internal/bot"
	"github.com/xecut/xecutbot/internal/bot/handlers"
	"github.com/xecut/xecutbot/internal/bot/tasks"
	"github.com/xecut/xecutbot/internal/config"
	"github.com/xecut/xecutbot/internal/logger"
	"github.com/xecut/xecutbot/internal/relay"
	"github.com/xecut/xecutbot/internal/telegram"
)

// Options are the command-line flags.
type Options struct {
	Config  string `short:"c" long:"config" default:"./config.yaml" description:"Path to configuration file"`
	EnvFile string `long:"env-file" default:".env" description:"Optional dotenv file loaded before the configuration"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx, opts)
	stop()
	os.Exit(exitCode)
}

// run initializes all components (config, logger, telegram client, relay
// workflow, handlers, scheduler), runs them until ctx is cancelled and returns
// the process exit code.
func run(ctx context.Context, opts Options) int {
	if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("Failed to load env file", "path", opts.EnvFile, "error", err)
		return 1
	}

	cfg, err := config.LoadConfig(opts.Config)
	if err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			fmt.Fprintln(os.Stderr, err)
		}
		slog.Error("Failed to load configuration", "path", opts.Config, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	tg, err := telegram.NewTelegramBot(cfg.Telegram, log, tgbot.WithMiddlewares(logger.Middleware(log)))
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}
	client := telegram.NewClient(tg, cfg.Telegram.RequestTimeout, log)

	if cfg.Telegram.DropPendingUpdates {
		if err := client.DropPendingUpdates(ctx); err != nil {
			log.Warn("Failed to drop pending updates", "error", err)
		}
	}

	workflow := relay.NewWorkflow(log, cfg.RelaySettings(), client, client)
	hDeps := handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Relay:   workflow,
		Replier: client,
	}

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterCommands(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := client.SetCommands(ctx, handlers.BotCommands(cmdHandlers)); err != nil {
		log.Warn("Failed to publish bot commands", "error", err)
	}

	tDeps := tasks.TaskDeps{Logger: log, Config: cfg, Checker: client}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, tg, sched)

	log.Info("Starting bot...",
		"source_chat_id", cfg.Relay.SourceChatID,
		"resident_group_id", cfg.Relay.ResidentGroupID,
		"destination_channel", cfg.Relay.DestinationChannel,
		"command", cfg.Relay.Command)
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
