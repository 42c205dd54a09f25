package port

import "context"

// EventHandler receives the lifecycle and message events of one relay connection.
type EventHandler interface {
	// OnConnected is called once the server acknowledged registration.
	OnConnected()
	// OnJoin is called when the bot's own membership in channel is established.
	OnJoin(channel string)
	// OnMessage is called for every inbound PRIVMSG.
	OnMessage(sender, source, text string)
	// OnDisconnected is called exactly once when the connection ends.
	OnDisconnected(err error)
}

// Connection is one established relay connection.
type Connection interface {
	TextSender
	// Run processes inbound traffic and dispatches events to handler until the connection ends.
	Run(ctx context.Context, handler EventHandler) error
	// Join requests membership in channel.
	Join(channel string) error
	// Nick returns the bot's current identity on this connection.
	Nick() string
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context) (Connection, error)
}

// Lifecycle is notified by a session about connection lifecycle changes.
type Lifecycle interface {
	Connected()
	Joined(channel string)
	Disconnected(err error)
}
