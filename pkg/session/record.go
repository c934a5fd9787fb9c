package session

import (
	"fmt"
	"strconv"
	"time"
)

// Output column names, in file order.
const (
	ColSessionID         = "session_id"
	ColTimestamp         = "timestamp"
	ColSubject           = "subject"
	ColDurationMinutes   = "duration_minutes"
	ColTabSwitches       = "tab_switches"
	ColKeystrokeRate     = "keystroke_rate_per_minute"
	ColMouseMovements    = "mouse_movements_total"
	ColInactivityPeriods = "inactivity_periods_count"
	ColScrollEvents      = "scroll_events_total"
	ColFocus             = "focus_classification"
	ColProductivity      = "productivity_score"
)

// Columns is the fixed column order of a serialized dataset.
var Columns = []string{
	ColSessionID,
	ColTimestamp,
	ColSubject,
	ColDurationMinutes,
	ColTabSwitches,
	ColKeystrokeRate,
	ColMouseMovements,
	ColInactivityPeriods,
	ColScrollEvents,
	ColFocus,
	ColProductivity,
}

// BehaviorColumns are the six behavioural model inputs, in file order.
var BehaviorColumns = []string{
	ColDurationMinutes,
	ColTabSwitches,
	ColKeystrokeRate,
	ColMouseMovements,
	ColInactivityPeriods,
	ColScrollEvents,
}

// TimestampLayout renders instants as ISO-8601 with a trailing Z. Fractional
// seconds appear only when non-zero, so sub-second intervals stay distinct.
const TimestampLayout = "2006-01-02T15:04:05.999999999Z"

// Record is one synthesized study session.
type Record struct {
	SessionID         string
	Timestamp         time.Time
	Subject           string
	DurationMinutes   int
	TabSwitches       int
	KeystrokeRate     int
	MouseMovements    int
	InactivityPeriods int
	ScrollEvents      int
	Focus             FocusCategory
	ProductivityScore int
}

// Value returns the integer drawn for feature f.
func (r Record) Value(f Feature) int {
	switch f {
	case Duration:
		return r.DurationMinutes
	case TabSwitches:
		return r.TabSwitches
	case Keystrokes:
		return r.KeystrokeRate
	case MouseMoves:
		return r.MouseMovements
	case Inactivity:
		return r.InactivityPeriods
	case Scrolls:
		return r.ScrollEvents
	case Productivity:
		return r.ProductivityScore
	}
	return 0
}

// Row renders the record in Columns order.
func (r Record) Row() []string {
	return []string{
		r.SessionID,
		r.Timestamp.UTC().Format(TimestampLayout),
		r.Subject,
		strconv.Itoa(r.DurationMinutes),
		strconv.Itoa(r.TabSwitches),
		strconv.Itoa(r.KeystrokeRate),
		strconv.Itoa(r.MouseMovements),
		strconv.Itoa(r.InactivityPeriods),
		strconv.Itoa(r.ScrollEvents),
		string(r.Focus),
		strconv.Itoa(r.ProductivityScore),
	}
}

// ParseRow is the inverse of Row. The row must be in Columns order.
func ParseRow(row []string) (Record, error) {
	if len(row) != len(Columns) {
		return Record{}, fmt.Errorf("session: row has %d fields, want %d", len(row), len(Columns))
	}
	ts, err := time.Parse(time.RFC3339, row[1])
	if err != nil {
		return Record{}, fmt.Errorf("session: %s: %w", ColTimestamp, err)
	}
	focus, err := ParseCategory(row[9])
	if err != nil {
		return Record{}, err
	}
	ints := make([]int, 0, 7)
	for _, i := range []int{3, 4, 5, 6, 7, 8, 10} {
		v, err := strconv.Atoi(row[i])
		if err != nil {
			return Record{}, fmt.Errorf("session: %s: %w", Columns[i], err)
		}
		ints = append(ints, v)
	}
	return Record{
		SessionID:         row[0],
		Timestamp:         ts.UTC(),
		Subject:           row[2],
		DurationMinutes:   ints[0],
		TabSwitches:       ints[1],
		KeystrokeRate:     ints[2],
		MouseMovements:    ints[3],
		InactivityPeriods: ints[4],
		ScrollEvents:      ints[5],
		Focus:             focus,
		ProductivityScore: ints[6],
	}, nil
}
