package invoice_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/warp/invoice-engine/invoice"
)

// =============================================================================
// PLAIN/RICH CODEC TESTS
// =============================================================================

func TestDate_ToRich_ToPlain_RoundTrip(t *testing.T) {
	// GIVEN: A plain triple
	// WHEN: Promoting to rich and back
	// THEN: The triple is unchanged

	d := invoice.NewDate(2025, 3, 14)
	back := d.ToRich().ToPlain()
	if !back.Equal(d) || back.IsRich() {
		t.Errorf("round trip changed the value: %+v -> %+v", d, back)
	}
}

func TestDate_ToPlain_Idempotent(t *testing.T) {
	d := invoice.NewDate(2025, 3, 14)
	if d.ToPlain() != d.ToPlain().ToPlain() {
		t.Error("ToPlain is not idempotent")
	}
}

func TestDate_ToRich_Idempotent(t *testing.T) {
	d := invoice.NewDate(2025, 3, 14)
	if d.ToRich() != d.ToRich().ToRich() {
		t.Error("ToRich is not idempotent")
	}
}

func TestDate_AlreadyRich_NotReWrapped(t *testing.T) {
	// GIVEN: A value that was already promoted in a prior pass
	// WHEN: Promoting again
	// THEN: The calendar marker is preserved as-is, never stacked

	rich := invoice.NewDate(2025, 1, 1).ToRich()
	again := rich.ToRich()
	if again.Calendar != invoice.CalendarGregorian {
		t.Errorf("expected calendar marker %q, got %q", invoice.CalendarGregorian, again.Calendar)
	}
	if again != rich {
		t.Errorf("re-promotion changed the value: %+v -> %+v", rich, again)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := invoice.NewDate(2025, 12, 30).ToRich()
	later := d.AddDays(5)
	if later.Year != 2026 || later.Month != 1 || later.Day != 4 {
		t.Errorf("expected 2026-01-04, got %s", later)
	}
	if !later.IsRich() {
		t.Error("arithmetic dropped the calendar marker")
	}
}

func TestDate_DateOf(t *testing.T) {
	d := invoice.DateOf(time.Date(2025, time.July, 9, 23, 59, 0, 0, time.UTC))
	if d.Year != 2025 || d.Month != 7 || d.Day != 9 {
		t.Errorf("expected 2025-07-09, got %s", d)
	}
	if d.IsRich() {
		t.Error("DateOf should produce a plain triple")
	}
}

// =============================================================================
// JSON BOUNDARY TESTS
// =============================================================================

func TestDate_MarshalJSON_AlwaysPlain(t *testing.T) {
	// GIVEN: A rich date
	// WHEN: Serializing
	// THEN: Only the triple leaves the process, never the calendar marker

	b, err := json.Marshal(invoice.NewDate(2025, 3, 14).ToRich())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "calendar") {
		t.Errorf("calendar marker leaked into wire form: %s", b)
	}
	if string(b) != `{"year":2025,"month":3,"day":14}` {
		t.Errorf("unexpected wire form: %s", b)
	}
}

func TestDate_UnmarshalJSON_PlainTriple(t *testing.T) {
	var d invoice.Date
	if err := json.Unmarshal([]byte(`{"year":2024,"month":12,"day":31}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.IsRich() {
		t.Error("plain triple must not arrive rich")
	}
	if !d.Equal(invoice.NewDate(2024, 12, 31)) {
		t.Errorf("unexpected value: %+v", d)
	}
}

func TestDate_UnmarshalJSON_CalendarMarkerMarksRich(t *testing.T) {
	// A value serialized by a calendar-aware producer keeps its richness so
	// a later promotion pass does not re-wrap it.
	var d invoice.Date
	if err := json.Unmarshal([]byte(`{"year":2024,"month":2,"day":29,"calendar":"gregory"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !d.IsRich() {
		t.Error("calendar marker should mark the value rich")
	}
	if d.ToRich() != d {
		t.Error("already-rich value was re-wrapped")
	}
}
