package events

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
)

// EventLogger persists bus events to JSONL files organized by session.
// Stream deltas are skipped; the final assistant.message carries the
// same text without the noise.
type EventLogger struct {
	dir         string
	unsubscribe func()
}

// NewEventLogger subscribes to all bus events and writes them as JSONL
// under dir, one file per session.
func NewEventLogger(dir string, bus *Bus) *EventLogger {
	el := &EventLogger{dir: dir}
	el.unsubscribe = bus.Subscribe(el.handleEvent)
	return el
}

// Close unsubscribes the logger from the event bus.
func (el *EventLogger) Close() {
	if el.unsubscribe != nil {
		el.unsubscribe()
	}
}

func (el *EventLogger) handleEvent(e Event) {
	if e.Type == EventAssistantStream {
		return
	}
	_ = el.writeEvent(e)
}

func (el *EventLogger) writeEvent(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := logPath(el.dir, e.SessionID)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

func logPath(dir, sessionID string) string {
	if sessionID == "" {
		return filepath.Join(dir, "_global.jsonl")
	}
	return filepath.Join(dir, sessionID+".jsonl")
}

// ReadLog loads the persisted events of one session. A missing log file
// yields an empty slice.
func ReadLog(dir, sessionID string) ([]Event, error) {
	f, err := os.Open(logPath(dir, sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, scanner.Err()
}
