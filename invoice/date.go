package invoice

import (
	"encoding/json"
	"time"
)

// =============================================================================
// DATE - Dual-representation calendrical value (plain triple vs rich)
// =============================================================================

// CalendarGregorian is the calendar marker for rich dates.
const CalendarGregorian = "gregory"

// Date is a calendrical value with no time-of-day component.
//
// Two representations share this one type:
//   - Plain: Calendar is empty. A bare {year, month, day} triple, safe to
//     serialize and safe to construct in any execution context.
//   - Rich:  Calendar is set. Supports calendar-aware arithmetic via Time().
//
// Every process boundary (storage, export, import) normalizes to plain on
// the way out and promotes to rich on the way in when arithmetic is needed.
type Date struct {
	Year     int
	Month    int
	Day      int
	Calendar string
}

// NewDate constructs a plain date.
func NewDate(year int, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf extracts the plain date from a time.Time.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// IsRich reports whether the value carries a calendar marker.
func (d Date) IsRich() bool { return d.Calendar != "" }

// IsZero reports whether the value is the missing-date zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// ToPlain strips the calendar marker, keeping the triple. Idempotent: a
// plain value passes through unchanged.
func (d Date) ToPlain() Date {
	d.Calendar = ""
	return d
}

// ToRich promotes a plain triple to a calendar-aware value. Idempotent: a
// value that already carries a calendar marker is NOT re-wrapped.
func (d Date) ToRich() Date {
	if d.IsRich() {
		return d
	}
	d.Calendar = CalendarGregorian
	return d
}

// Time returns the value as a UTC time.Time at midnight, for arithmetic
// and formatting. Valid for both representations.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later, preserving the representation.
func (d Date) AddDays(n int) Date {
	t := d.Time().AddDate(0, 0, n)
	out := DateOf(t)
	out.Calendar = d.Calendar
	return out
}

// Equal compares the triples, ignoring the representation.
func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// =============================================================================
// JSON - Always the plain triple on the way out
// =============================================================================

type dateWire struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Calendar string `json:"calendar,omitempty"`
}

// MarshalJSON emits the plain triple. The calendar marker never leaves the
// process: rich values are normalized at the boundary.
func (d Date) MarshalJSON() ([]byte, error) {
	p := d.ToPlain()
	return json.Marshal(dateWire{Year: p.Year, Month: p.Month, Day: p.Day})
}

// UnmarshalJSON accepts a {year, month, day} triple. A calendar field, if
// present in the input, marks the value as already rich so that a later
// ToRich does not re-wrap it.
func (d *Date) UnmarshalJSON(b []byte) error {
	var w dateWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = Date{Year: w.Year, Month: w.Month, Day: w.Day, Calendar: w.Calendar}
	return nil
}
