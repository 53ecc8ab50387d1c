package transport

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// Event is one dispatched Server-Sent Event
type Event struct {
	ID    string
	Event string // empty means "message"
	Data  string
	Retry time.Duration
}

// EventReader parses a text/event-stream body. The last event id carries
// over to later events until the server changes it.
type EventReader struct {
	r      *bufio.Reader
	lastID string
}

// NewEventReader wraps r
func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next blocks until a complete event is read. A trailing event without its
// terminating blank line is discarded and io.EOF returned.
func (er *EventReader) Next() (Event, error) {
	var (
		ev      Event
		data    strings.Builder
		hasData bool
	)

	for {
		line, err := er.r.ReadString('\n')
		if err != nil {
			// A partial line at EOF belongs to an incomplete event
			return Event{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if !hasData {
				ev = Event{}
				continue
			}
			ev.ID = er.lastID
			ev.Data = data.String()
			return ev, nil
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			ev.Event = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				er.lastID = value
			}
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				ev.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
}
