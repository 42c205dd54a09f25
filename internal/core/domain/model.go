package domain

import "strings"

// IncomingMessage is a single inbound PRIVMSG as seen by the session.
type IncomingMessage struct {
	// Sender is the raw peer string, e.g. "alice!alice@example.org".
	Sender string
	// Source is either a channel name or the bot's own nick for direct messages.
	Source string
	Text   string
}

// Origin identifies where a command came from and who sent it.
type Origin struct {
	Context string
	Sender  string
	// Self is the bot identity at the time the message was received.
	Self string
}

func (o Origin) IsDirect() bool {
	return o.Context == o.Self
}

// ReplyTarget derives where the reply to this origin goes. Direct messages are answered directly
// without addressing, everything else goes back to the shared context prefixed with the sender's nick.
func (o Origin) ReplyTarget() ReplyTarget {
	if o.IsDirect() {
		return ReplyTarget{Destination: o.Sender}
	}

	return ReplyTarget{Destination: o.Context, Prefix: o.Sender}
}

type ParsedCommand struct {
	Name     string
	Argument string
	Origin   Origin
}

type ReplyTarget struct {
	Destination string
	Prefix      string
}

func (t ReplyTarget) Format(text string) string {
	if t.Prefix == "" {
		return text
	}

	return t.Prefix + ", " + text
}

// Result is the terminal outcome of a command invocation.
type Result struct {
	Text   string
	Failed bool
}

func Success(text string) Result {
	return Result{Text: text}
}

func Failure(message string) Result {
	return Result{Text: message, Failed: true}
}

// IsASCII reports whether s only contains 7-bit characters. Translation direction is picked with it,
// which is a weak heuristic: any non-ASCII input is assumed to be in the foreign language.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}

	return true
}

// SplitSender returns the nick part of a "nick!user@host" peer string. Peers without a delimiter are
// returned unchanged.
func SplitSender(sender string) string {
	nick, _, _ := strings.Cut(sender, "!")
	return nick
}

type DictionaryEntry struct {
	Headword    string
	Reading     string
	Translation string
}
