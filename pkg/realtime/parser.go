package realtime

import (
	"bufio"
	"io"
	"strings"
)

const (
	maxLineSize      = 1 << 20
	defaultEventName = "message"
)

// Event is one dispatched server-sent event.
type Event struct {
	Name string
	Data string
	ID   string
}

// readEvents parses a text/event-stream body and calls emit for every
// complete event with data. Comment lines and unknown fields are skipped.
// It returns when r ends or fails.
func readEvents(r io.Reader, emit func(Event)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	var (
		name    string
		id      string
		data    strings.Builder
		hasData bool
	)

	dispatch := func() {
		if hasData {
			ev := Event{Name: name, Data: data.String(), ID: id}
			if ev.Name == "" {
				ev.Name = defaultEventName
			}
			emit(ev)
		}
		name = ""
		data.Reset()
		hasData = false
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			dispatch()
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			name = value
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "id":
			id = value
		}
	}

	return sc.Err()
}
