package domain

// ConnectionState is the supervisor's view of the relay connection.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Joining
	Active
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Joining:
		return "joining"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}
