package config

import (
	"errors"
	"feiji/internal/core/domain"
	"fmt"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "FEIJI"

type Config struct {
	IRC        IRC
	Bot        Bot
	Commands   Commands
	Reconnect  Reconnect
	SayLater   SayLater
	Title      Title
	Dictionary Dictionary
	Stroke     Stroke
	Translate  Translate
}

type IRC struct {
	Host          string
	Port          int
	TLS           bool
	TLSSkipVerify bool
	Nick          string
	User          string
	Name          string
	Password      string
	Channels      []string
	DialTimeout   time.Duration
	PingFrequency time.Duration
	PingTimeout   time.Duration
	SendLimit     time.Duration
	SendBurst     int
	MaxLineLength int
}

type Bot struct {
	Leader    string
	LogLevel  zerolog.Level
	LogPretty bool
}

type Commands struct {
	Timeout           time.Duration
	Timeouts          map[string]time.Duration
	MaxPending        int
	MaxPendingPerNick int
	DrainTimeout      time.Duration
}

type Reconnect struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	MaxAttempts  int
}

type SayLater struct {
	MaxDelay time.Duration
}

type Title struct {
	MaxBodyBytes int64
	UserAgent    string
}

type Dictionary struct {
	URL        string
	MaxEntries int
}

type Stroke struct {
	URLTemplate string
}

type Translate struct {
	APIKey          string
	Model           string
	NativeLanguage  string
	ForeignLanguage string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("irc.port", 6667)
	v.SetDefault("irc.tls", false)
	v.SetDefault("irc.tls_skip_verify", false)
	v.SetDefault("irc.nick", "feiji")
	v.SetDefault("irc.channels", []string{"#foobartest"})
	v.SetDefault("irc.dial_timeout", "30s")
	v.SetDefault("irc.ping_frequency", "1m")
	v.SetDefault("irc.ping_timeout", "30s")
	v.SetDefault("irc.send_limit", "500ms")
	v.SetDefault("irc.send_burst", 4)
	v.SetDefault("irc.max_line_length", 400)

	v.SetDefault("bot.leader", "!")
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("bot.log_pretty", false)

	v.SetDefault("commands.timeout", "30s")
	v.SetDefault("commands.max_pending", 64)
	v.SetDefault("commands.max_pending_per_nick", 4)
	v.SetDefault("commands.drain_timeout", "5s")

	v.SetDefault("reconnect.initial_delay", "1s")
	v.SetDefault("reconnect.max_delay", "5m")
	v.SetDefault("reconnect.multiplier", 2.0)
	v.SetDefault("reconnect.max_attempts", 0)

	v.SetDefault("saylater.max_delay", "24h")

	v.SetDefault("title.max_body_bytes", 1<<20)
	v.SetDefault("title.user_agent", "feiji (IRC bot)")

	v.SetDefault("dictionary.max_entries", 3)

	v.SetDefault("translate.native_language", "en")
	v.SetDefault("translate.foreign_language", "zh")
}

// Load reads the TOML file at path and applies FEIJI_ environment overrides. A missing file is only an error
// when required is set.
func Load(path string, required bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	log.Info().Str("path", path).Msg("reading config file...")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if required || !missing {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}

		log.Warn().Str("path", path).Msg("config file not found, using defaults and environment")
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	level, err := zerolog.ParseLevel(v.GetString("bot.log_level"))
	if err != nil {
		return nil, fmt.Errorf("%w: bot.log_level: %w", domain.ErrInvalidConfig, err)
	}

	timeouts := make(map[string]time.Duration)
	for name, raw := range v.GetStringMapString("commands.timeouts") {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: commands.timeouts.%s: %w", domain.ErrInvalidConfig, name, err)
		}
		timeouts[name] = d
	}

	c := &Config{
		IRC: IRC{
			Host:          v.GetString("irc.host"),
			Port:          v.GetInt("irc.port"),
			TLS:           v.GetBool("irc.tls"),
			TLSSkipVerify: v.GetBool("irc.tls_skip_verify"),
			Nick:          v.GetString("irc.nick"),
			User:          v.GetString("irc.user"),
			Name:          v.GetString("irc.name"),
			Password:      v.GetString("irc.password"),
			Channels:      v.GetStringSlice("irc.channels"),
			DialTimeout:   v.GetDuration("irc.dial_timeout"),
			PingFrequency: v.GetDuration("irc.ping_frequency"),
			PingTimeout:   v.GetDuration("irc.ping_timeout"),
			SendLimit:     v.GetDuration("irc.send_limit"),
			SendBurst:     v.GetInt("irc.send_burst"),
			MaxLineLength: v.GetInt("irc.max_line_length"),
		},
		Bot: Bot{
			Leader:    v.GetString("bot.leader"),
			LogLevel:  level,
			LogPretty: v.GetBool("bot.log_pretty"),
		},
		Commands: Commands{
			Timeout:           v.GetDuration("commands.timeout"),
			Timeouts:          timeouts,
			MaxPending:        v.GetInt("commands.max_pending"),
			MaxPendingPerNick: v.GetInt("commands.max_pending_per_nick"),
			DrainTimeout:      v.GetDuration("commands.drain_timeout"),
		},
		Reconnect: Reconnect{
			InitialDelay: v.GetDuration("reconnect.initial_delay"),
			MaxDelay:     v.GetDuration("reconnect.max_delay"),
			Multiplier:   v.GetFloat64("reconnect.multiplier"),
			MaxAttempts:  v.GetInt("reconnect.max_attempts"),
		},
		SayLater: SayLater{
			MaxDelay: v.GetDuration("saylater.max_delay"),
		},
		Title: Title{
			MaxBodyBytes: v.GetInt64("title.max_body_bytes"),
			UserAgent:    v.GetString("title.user_agent"),
		},
		Dictionary: Dictionary{
			URL:        v.GetString("dictionary.url"),
			MaxEntries: v.GetInt("dictionary.max_entries"),
		},
		Stroke: Stroke{
			URLTemplate: v.GetString("stroke.url_template"),
		},
		Translate: Translate{
			APIKey:          v.GetString("translate.api_key"),
			Model:           v.GetString("translate.model"),
			NativeLanguage:  v.GetString("translate.native_language"),
			ForeignLanguage: v.GetString("translate.foreign_language"),
		},
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate rejects configurations the bot cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.IRC.Host == "" {
		errs = append(errs, errors.New("irc.host is required"))
	}

	if c.IRC.Port < 1 || c.IRC.Port > 65535 {
		errs = append(errs, fmt.Errorf("irc.port %d out of range", c.IRC.Port))
	}

	if c.IRC.Nick == "" {
		errs = append(errs, errors.New("irc.nick is required"))
	}

	if c.IRC.MaxLineLength < 16 {
		errs = append(errs, fmt.Errorf("irc.max_line_length %d too small", c.IRC.MaxLineLength))
	}

	if utf8.RuneCountInString(c.Bot.Leader) != 1 {
		errs = append(errs, fmt.Errorf("bot.leader %q must be a single character", c.Bot.Leader))
	}

	if c.Commands.Timeout <= 0 {
		errs = append(errs, errors.New("commands.timeout must be positive"))
	}

	for name, d := range c.Commands.Timeouts {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("commands.timeouts.%s must be positive", name))
		}
	}

	if c.Commands.MaxPending < 1 || c.Commands.MaxPendingPerNick < 1 {
		errs = append(errs, errors.New("commands.max_pending and commands.max_pending_per_nick must be at least 1"))
	}

	if c.Reconnect.InitialDelay <= 0 || c.Reconnect.MaxDelay < c.Reconnect.InitialDelay {
		errs = append(errs, errors.New("reconnect delays must be positive with max_delay >= initial_delay"))
	}

	if c.Reconnect.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("reconnect.multiplier %g must be at least 1", c.Reconnect.Multiplier))
	}

	if c.Reconnect.MaxAttempts < 0 {
		errs = append(errs, errors.New("reconnect.max_attempts must not be negative"))
	}

	if c.SayLater.MaxDelay <= 0 {
		errs = append(errs, errors.New("saylater.max_delay must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}
