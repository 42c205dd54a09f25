package transport

import (
	"context"
	"crypto/tls"
	"feiji/internal/adapters/sender"
	"feiji/internal/core/port"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/irc.v4"
)

const ctcpDelimiter = "\x01"

type Options struct {
	Host          string
	Port          int
	TLS           bool
	TLSSkipVerify bool
	Nick          string
	User          string
	Name          string
	Password      string
	DialTimeout   time.Duration
	PingFrequency time.Duration
	PingTimeout   time.Duration
	SendLimit     time.Duration
	SendBurst     int
	LineLimit     int
}

// Dialer opens IRC connections.
type Dialer struct {
	opts Options
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewDialer(opts Options) *Dialer {
	d := &Dialer{opts: opts}

	netDialer := &net.Dialer{Timeout: opts.DialTimeout}
	if opts.TLS {
		tlsDialer := &tls.Dialer{
			NetDialer: netDialer,
			Config: &tls.Config{
				ServerName:         opts.Host,
				InsecureSkipVerify: opts.TLSSkipVerify, //nolint:gosec // opt-in for self-signed relays
				MinVersion:         tls.VersionTLS12,
			},
		}
		d.dial = tlsDialer.DialContext
	} else {
		d.dial = netDialer.DialContext
	}

	return d
}

func (d *Dialer) Dial(ctx context.Context) (port.Connection, error) {
	addr := net.JoinHostPort(d.opts.Host, strconv.Itoa(d.opts.Port))

	log.Info().Str("addr", addr).Bool("tls", d.opts.TLS).Msg("connecting")

	conn, err := d.dial(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	return newConnection(conn, d.opts), nil
}

// Connection is one IRC connection. Registration, PING replies and nick collisions are handled by the
// irc client; everything else is translated into port.EventHandler calls.
type Connection struct {
	conn   net.Conn
	client *irc.Client
	sender *sender.IRC
	events port.EventHandler
	l      zerolog.Logger
}

func newConnection(conn net.Conn, opts Options) *Connection {
	c := &Connection{
		conn: conn,
		l:    log.With().Str("component", "transport").Str("remote", conn.RemoteAddr().String()).Logger(),
	}

	user := opts.User
	if user == "" {
		user = opts.Nick
	}

	name := opts.Name
	if name == "" {
		name = opts.Nick
	}

	c.client = irc.NewClient(conn, irc.ClientConfig{
		Nick:          opts.Nick,
		Pass:          opts.Password,
		User:          user,
		Name:          name,
		PingFrequency: opts.PingFrequency,
		PingTimeout:   opts.PingTimeout,
		SendLimit:     opts.SendLimit,
		SendBurst:     opts.SendBurst,
		Handler:       irc.HandlerFunc(c.handle),
	})
	c.sender = sender.NewIRC(c.client, opts.LineLimit)

	return c
}

// Run blocks until the connection ends and reports the end to handler.
func (c *Connection) Run(ctx context.Context, handler port.EventHandler) error {
	c.events = handler

	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.Close()
	})
	defer stop()

	err := c.client.RunContext(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	c.l.Info().Err(err).Msg("connection ended")
	handler.OnDisconnected(err)

	return err
}

func (c *Connection) SendMessage(ctx context.Context, target, text string) error {
	return c.sender.SendMessage(ctx, target, text)
}

func (c *Connection) Join(channel string) error {
	c.l.Debug().Str("channel", channel).Msg("joining")

	return c.client.WriteMessage(&irc.Message{Command: "JOIN", Params: []string{channel}})
}

func (c *Connection) Nick() string {
	return c.client.CurrentNick()
}

func (c *Connection) Close() error {
	return c.conn.Close()
}

func (c *Connection) handle(client *irc.Client, m *irc.Message) {
	if c.events == nil {
		return
	}

	Dispatch(client.CurrentNick(), m, c.events)
}

// Dispatch translates one inbound IRC message into handler calls. nick is the bot's current nick.
func Dispatch(nick string, m *irc.Message, handler port.EventHandler) {
	switch m.Command {
	case "001":
		handler.OnConnected()
	case "JOIN":
		if !hasSender(m) || len(m.Params) == 0 || m.Prefix.Name != nick {
			return
		}

		handler.OnJoin(m.Params[0])
	case "PRIVMSG":
		if !hasSender(m) || len(m.Params) < 2 {
			return
		}

		text := m.Trailing()
		if strings.HasPrefix(text, ctcpDelimiter) {
			return
		}

		handler.OnMessage(m.Prefix.String(), m.Params[0], text)
	case "ERROR":
		log.Warn().Str("component", "transport").Str("reason", m.Trailing()).Msg("server error")
	}
}

// hasSender reports whether m names its origin. The parser allocates an empty prefix for lines without one.
func hasSender(m *irc.Message) bool {
	return m.Prefix != nil && m.Prefix.Name != ""
}
