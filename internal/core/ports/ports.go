package ports

import (
	"context"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
)

// Listener receives everything a transport client publishes.
// Callbacks always run on the event loop.
type Listener interface {
	// OnSnapshot is called for every snapshot in network-arrival order
	OnSnapshot(snapshot domain.Snapshot)

	// OnStateChange is called when the connection state changes
	OnStateChange(state domain.ConnectionState)
}

// Stream is one live underlying connection
type Stream interface {
	// Recv blocks until the next raw message arrives
	Recv() ([]byte, error)

	// Send writes a raw text message, if the transport supports it
	Send(payload []byte) error

	// Close tears down the connection and unblocks Recv
	Close() error
}

// Transport defines the port for one real-time transport variant
type Transport interface {
	// Kind identifies the variant
	Kind() domain.TransportKind

	// Endpoint returns the URL the transport connects to
	Endpoint() string

	// Dial opens a new connection. The context bounds the life of the
	// connection, not only the handshake.
	Dial(ctx context.Context) (Stream, error)

	// Decode turns a raw message into a snapshot. ok is false for messages
	// that carry no snapshot (keepalives).
	Decode(payload []byte) (snapshot domain.Snapshot, ok bool, err error)
}

// TransportClient defines a connection owner built on top of a Transport
type TransportClient interface {
	// Kind identifies the transport variant in use
	Kind() domain.TransportKind

	// Open starts connecting. Later calls are no-ops.
	Open()

	// Close tears the connection down. Safe to call more than once.
	Close()

	// Send writes a raw text message on the live connection
	Send(text string) error

	// State returns the current connection state
	State() domain.ConnectionState
}

// AssetAPI defines the port for the request/response asset API
type AssetAPI interface {
	// ListAssets fetches the full current asset list
	ListAssets(ctx context.Context) (domain.Snapshot, error)

	// GetAsset fetches a single asset by id
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
}
