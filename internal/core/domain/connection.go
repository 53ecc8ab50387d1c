package domain

import (
	"fmt"
	"strings"
)

// ConnectionState is the user-visible state of a transport client
type ConnectionState string

const (
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateDisconnected ConnectionState = "disconnected"
	StateReconnecting ConnectionState = "reconnecting"
)

// Label returns the capitalised state for status lines
func (s ConnectionState) Label() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateReconnecting:
		return "Reconnecting"
	default:
		return "Disconnected"
	}
}

// TransportKind selects one of the two real-time transports
type TransportKind string

const (
	TransportWebSocket TransportKind = "websocket"
	TransportSSE       TransportKind = "sse"
)

// TransportKinds lists the supported transports in toggle order
var TransportKinds = []TransportKind{TransportWebSocket, TransportSSE}

// ParseTransportKind accepts the config/flag spelling of a transport
func ParseTransportKind(s string) (TransportKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "websocket", "ws", "socket":
		return TransportWebSocket, nil
	case "sse", "stream", "eventsource":
		return TransportSSE, nil
	default:
		return "", fmt.Errorf("unknown transport %q (expected websocket or sse)", s)
	}
}

// Next returns the other transport, used by toggles
func (k TransportKind) Next() TransportKind {
	if k == TransportWebSocket {
		return TransportSSE
	}
	return TransportWebSocket
}

// Label is the upper-case name shown next to the connection status
func (k TransportKind) Label() string {
	return strings.ToUpper(string(k))
}
