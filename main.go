package main

import (
	"context"
	"errors"
	"feiji/internal/adapters/handler"
	"feiji/internal/adapters/lookup"
	"feiji/internal/adapters/translator"
	"feiji/internal/adapters/transport"
	"feiji/internal/config"
	"feiji/internal/core/domain"
	"feiji/internal/core/domain/command"
	"feiji/internal/core/port"
	"feiji/internal/core/service"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.toml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("feiji stopped")
		cancel()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "feiji",
		Short:         "IRC command bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}

			setupLogging(cfg.Bot)

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the TOML config file")

	return cmd
}

func setupLogging(cfg config.Bot) {
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Info().Msg("starting feiji...")

	registry := buildRegistry(cfg)
	log.Info().Strs("commands", registry.ListCommands()).Msg("commands registered")

	tracker := service.NewPendingTracker(cfg.Commands.MaxPending, cfg.Commands.MaxPendingPerNick)
	timeouts := commandTimeouts(cfg)

	var (
		mutex     sync.Mutex
		executors []*service.Executor
	)

	newSession := func(ctx context.Context, conn port.Connection, lifecycle port.Lifecycle) port.EventHandler {
		executor := service.NewExecutor(service.ExecutorParams{
			Router:   service.NewRouter(conn, cfg.IRC.MaxLineLength),
			Tracker:  tracker,
			Timeout:  cfg.Commands.Timeout,
			Timeouts: timeouts,
		})

		mutex.Lock()
		executors = append(busyExecutors(executors), executor)
		mutex.Unlock()

		return handler.NewSession(ctx, handler.SessionParams{
			Registry:  registry,
			Executor:  executor,
			Lifecycle: lifecycle,
			Identity:  conn.Nick,
			Leader:    cfg.Bot.Leader,
		})
	}

	supervisor := service.NewSupervisor(service.SupervisorParams{
		Dialer:     transport.NewDialer(dialerOptions(cfg.IRC)),
		NewSession: newSession,
		Channels:   cfg.IRC.Channels,
		Backoff: service.NewBackoff(
			cfg.Reconnect.InitialDelay, cfg.Reconnect.MaxDelay, cfg.Reconnect.Multiplier),
		MaxAttempts: cfg.Reconnect.MaxAttempts,
	})

	err := supervisor.Run(ctx)

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Commands.DrainTimeout)
	defer cancel()

	mutex.Lock()
	pending := executors
	mutex.Unlock()

	for _, e := range pending {
		if waitErr := e.Wait(drainCtx); waitErr != nil {
			log.Warn().Err(waitErr).Msg("gave up waiting for outstanding commands")
			break
		}
	}

	if errors.Is(err, domain.ErrReconnectExhausted) {
		log.Error().Int("max_attempts", cfg.Reconnect.MaxAttempts).Msg("giving up on the relay")
		return err
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info().Msg("feiji stopped")

	return nil
}

// busyExecutors drops executors of finished sessions that have nothing left to route.
func busyExecutors(executors []*service.Executor) []*service.Executor {
	busy := executors[:0]
	for _, e := range executors {
		if e.Outstanding() > 0 {
			busy = append(busy, e)
		}
	}

	clear(executors[len(busy):])

	return busy
}

func buildRegistry(cfg *config.Config) *command.Registry {
	registry := command.NewRegistry()

	languages := command.Languages{
		Native:  cfg.Translate.NativeLanguage,
		Foreign: cfg.Translate.ForeignLanguage,
	}

	var tr port.Translator
	if cfg.Translate.APIKey != "" {
		tr = translator.NewOpenRouter(cfg.Translate.APIKey, cfg.Translate.Model)
	}

	registry.Register(command.NewPing("ping"))
	registry.Register(command.NewHelp(registry, cfg.Bot.Leader, "help"), "?")
	registry.Register(command.NewSayLater(cfg.SayLater.MaxDelay, "saylater"))
	registry.Register(command.NewTitle(lookup.NewTitleFetcher(cfg.Title.UserAgent, cfg.Title.MaxBodyBytes), "title"))
	registry.Register(command.NewDebug("debug"))

	if tr != nil {
		registry.Register(command.NewTranslate(tr, languages, "tr"))
	}

	if cfg.Dictionary.URL != "" {
		registry.Register(command.NewDict(command.DictParams{
			Dictionary: lookup.NewDictionary(cfg.Dictionary.URL, cfg.Title.UserAgent),
			Translator: tr,
			Languages:  languages,
			MaxEntries: cfg.Dictionary.MaxEntries,
			Command:    "dict",
		}))
	}

	if cfg.Stroke.URLTemplate != "" {
		registry.Register(command.NewStroke(lookup.NewStrokeOrder(cfg.Stroke.URLTemplate, cfg.Title.UserAgent), "stroke"))
	}

	return registry
}

// commandTimeouts lets saylater outlive the general command timeout unless configured explicitly.
func commandTimeouts(cfg *config.Config) map[string]time.Duration {
	timeouts := make(map[string]time.Duration, len(cfg.Commands.Timeouts)+1)
	for name, d := range cfg.Commands.Timeouts {
		timeouts[name] = d
	}

	if _, ok := timeouts["saylater"]; !ok {
		timeouts["saylater"] = cfg.SayLater.MaxDelay + cfg.Commands.Timeout
	}

	return timeouts
}

func dialerOptions(cfg config.IRC) transport.Options {
	return transport.Options{
		Host:          cfg.Host,
		Port:          cfg.Port,
		TLS:           cfg.TLS,
		TLSSkipVerify: cfg.TLSSkipVerify,
		Nick:          cfg.Nick,
		User:          cfg.User,
		Name:          cfg.Name,
		Password:      cfg.Password,
		DialTimeout:   cfg.DialTimeout,
		PingFrequency: cfg.PingFrequency,
		PingTimeout:   cfg.PingTimeout,
		SendLimit:     cfg.SendLimit,
		SendBurst:     cfg.SendBurst,
		LineLimit:     cfg.MaxLineLength,
	}
}
