package command

import (
	"feiji/internal/core/domain"
	"feiji/internal/core/port"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Registry maps command names to handlers. It is filled once at startup and only read afterwards.
type Registry struct {
	commands map[string]port.Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]port.Command)}
}

func (r *Registry) Register(handler port.Command, aliases ...string) {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	for _, name := range append([]string{handler.GetCommand()}, aliases...) {
		log.Info().Str("handler", handler.GetCommand()).Str("name", name).Msg("adding command handler to registry")
		r.commands[name] = handler
	}
}

func (r *Registry) Get(command string) (port.Command, bool) {
	log.Trace().Str("command", command).Msg("fetching command handler from registry")

	handler, ok := r.commands[command]
	return handler, ok
}

func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Parse extracts an addressed command from msg. It reports false when the text does not start with leader
// or no command name follows it.
func Parse(msg domain.IncomingMessage, leader, self string) (domain.ParsedCommand, bool) {
	text := strings.TrimSpace(msg.Text)
	if leader == "" || !strings.HasPrefix(text, leader) {
		return domain.ParsedCommand{}, false
	}

	name, arg := splitCommand(strings.TrimPrefix(text, leader))
	if name == "" {
		return domain.ParsedCommand{}, false
	}

	return domain.ParsedCommand{
		Name:     name,
		Argument: arg,
		Origin: domain.Origin{
			Context: msg.Source,
			Sender:  domain.SplitSender(msg.Sender),
			Self:    self,
		},
	}, true
}

// splitCommand splits on the first whitespace. The argument keeps everything after that separator.
func splitCommand(s string) (string, string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}

	_, size := utf8.DecodeRuneInString(s[i:])

	return s[:i], s[i+size:]
}
