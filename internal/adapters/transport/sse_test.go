package transport

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestEventReader(t *testing.T) {
	body := strings.Join([]string{
		": keepalive",
		"",
		"data: [1]",
		"",
		"id: 7",
		"event: update",
		"data: first",
		"data: second",
		"retry: 2500",
		"",
		"data:no-space",
		"",
		"data: crlf\r",
		"\r",
		"event: ignored",
		"",
		"data: after reset",
		"",
		"data: incomplete",
	}, "\n")

	r := NewEventReader(strings.NewReader(body))

	want := []Event{
		{Data: "[1]"},
		{ID: "7", Event: "update", Data: "first\nsecond", Retry: 2500 * time.Millisecond},
		{ID: "7", Data: "no-space"},
		{ID: "7", Data: "crlf"},
		{ID: "7", Data: "after reset"},
	}
	for i, w := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		if got != w {
			t.Errorf("event %d = %+v, want %+v", i, got, w)
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("trailing incomplete event: err = %v, want io.EOF", err)
	}
}
