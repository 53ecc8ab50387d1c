// Package transport implements the two real-time transports: a WebSocket
// carrying typed envelopes and a Server-Sent Events stream carrying bare
// asset arrays.
package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
)

var (
	// ErrMalformed marks a payload that could not be decoded into a snapshot
	ErrMalformed = errors.New("malformed message")

	// ErrSendUnsupported is returned by Send on receive-only transports
	ErrSendUnsupported = errors.New("transport does not support sending")
)

// MessageType is the envelope discriminator on the socket
type MessageType string

const (
	MessageInitial MessageType = "initial"
	MessageUpdate  MessageType = "update"
	MessagePong    MessageType = "pong"
)

// Envelope is the socket message shape
type Envelope struct {
	Type    MessageType     `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// DecodeEnvelope parses a socket payload. Only initial and update envelopes
// carry a snapshot; every other type is reported as ok=false.
func DecodeEnvelope(payload []byte) (domain.Snapshot, bool, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	switch env.Type {
	case MessageInitial, MessageUpdate:
		snapshot, err := DecodeSnapshot(env.Data)
		if err != nil {
			return nil, false, err
		}
		return snapshot, true, nil
	default:
		return nil, false, nil
	}
}

// DecodeSnapshot parses a bare JSON asset array and validates it
func DecodeSnapshot(data []byte) (domain.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("%w: missing asset list", ErrMalformed)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return snapshot, nil
}
