package shared

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LogEntry is one immutable line of an aggregate's history
type LogEntry struct {
	Action string    `json:"action"`
	At     time.Time `json:"at"`
	Actor  uuid.UUID `json:"actor"`
	Note   string    `json:"note,omitempty"`
}

// ActivityLog is an append-only history. Entries are never edited in place.
type ActivityLog []LogEntry

// Append returns the log with one more entry
func (l ActivityLog) Append(action string, actor uuid.UUID, note string) ActivityLog {
	out := make(ActivityLog, len(l), len(l)+1)
	copy(out, l)
	return append(out, LogEntry{
		Action: action,
		At:     time.Now(),
		Actor:  actor,
		Note:   note,
	})
}

// Last returns the newest entry
func (l ActivityLog) Last() (LogEntry, bool) {
	if len(l) == 0 {
		return LogEntry{}, false
	}
	return l[len(l)-1], true
}

// Value implements driver.Valuer
func (l ActivityLog) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *ActivityLog) Scan(value any) error {
	if value == nil {
		*l = ActivityLog{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ActivityLog", value)
	}
	return json.Unmarshal(raw, l)
}
