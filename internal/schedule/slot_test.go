package schedule

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return tod
}

func TestNextSlot_NoBookings(t *testing.T) {
	// 2024-03-06 is a Wednesday.
	got := NextSlot(nil, mustDate(t, "2024-03-06"), DefaultHours)
	if got.String() != "2024-03-06 09:00" {
		t.Errorf("expected opening slot today, got %s", got)
	}
}

func TestNextSlot_NoBookingsWeekendToday(t *testing.T) {
	// 2024-03-09 is a Saturday; first bookable day is Monday the 11th.
	got := NextSlot(nil, mustDate(t, "2024-03-09"), DefaultHours)
	if got.String() != "2024-03-11 09:00" {
		t.Errorf("expected Monday opening, got %s", got)
	}
}

func TestNextSlot_MidDay(t *testing.T) {
	last := &Slot{Date: mustDate(t, "2024-03-06"), Time: mustTime(t, "10:00")}
	got := NextSlot(last, mustDate(t, "2024-03-06"), DefaultHours)
	if got.String() != "2024-03-06 10:30" {
		t.Errorf("expected one slot after last booking, got %s", got)
	}
}

func TestNextSlot_DayFullRollsToNextMorning(t *testing.T) {
	// 16:30 + 30 minutes reaches closing, so the next slot opens the
	// following day.
	last := &Slot{Date: mustDate(t, "2024-03-06"), Time: mustTime(t, "16:30")}
	got := NextSlot(last, mustDate(t, "2024-03-06"), DefaultHours)
	if got.String() != "2024-03-07 09:00" {
		t.Errorf("expected next morning opening, got %s", got)
	}
}

func TestNextSlot_FridayEveningRollsToMonday(t *testing.T) {
	// 2024-03-01 is a Friday. A 16:45 booking pushes past closing, and the
	// weekend rolls the slot to Monday 2024-03-04 at opening.
	last := &Slot{Date: mustDate(t, "2024-03-01"), Time: mustTime(t, "16:45")}
	got := NextSlot(last, mustDate(t, "2024-03-01"), DefaultHours)
	if got.String() != "2024-03-04 09:00" {
		t.Errorf("expected Monday opening, got %s", got)
	}
}

func TestNextSlot_AdvancesFromAppointmentDateNotToday(t *testing.T) {
	// The last appointment may be far in the future already; the next slot
	// follows it, not the calling day.
	last := &Slot{Date: mustDate(t, "2024-06-12"), Time: mustTime(t, "16:30")}
	got := NextSlot(last, mustDate(t, "2024-03-06"), DefaultHours)
	if got.String() != "2024-06-13 09:00" {
		t.Errorf("expected day after last appointment, got %s", got)
	}
}

func TestNextSlot_ClampsBeforeOpening(t *testing.T) {
	// A stray early-morning row must not produce a pre-opening slot.
	last := &Slot{Date: mustDate(t, "2024-03-06"), Time: mustTime(t, "07:00")}
	got := NextSlot(last, mustDate(t, "2024-03-06"), DefaultHours)
	if got.String() != "2024-03-06 09:00" {
		t.Errorf("expected clamp to opening, got %s", got)
	}
}

func TestNextSlot_CustomHours(t *testing.T) {
	h := Hours{Opening: 8, Closing: 12, SlotMinutes: 20}
	last := &Slot{Date: mustDate(t, "2024-03-06"), Time: mustTime(t, "11:40")}
	got := NextSlot(last, mustDate(t, "2024-03-06"), h)
	if got.String() != "2024-03-07 08:00" {
		t.Errorf("expected next day at custom opening, got %s", got)
	}
}

func TestAddMinutes_NoMidnightWrap(t *testing.T) {
	got := TimeOfDay{Hour: 17, Minute: 45}.AddMinutes(30)
	if got.Hour != 18 || got.Minute != 15 {
		t.Errorf("expected 18:15, got %s", got)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := mustDate(t, "2024-02-28")
	if got := d.AddDays(2).String(); got != "2024-03-01" {
		t.Errorf("leap-year rollover: expected 2024-03-01, got %s", got)
	}
	if d.Weekday() != time.Wednesday {
		t.Errorf("expected Wednesday, got %s", d.Weekday())
	}
	if !mustDate(t, "2024-03-09").IsWeekend() {
		t.Error("expected Saturday to be a weekend")
	}
	if mustDate(t, "2024-03-11").IsWeekend() {
		t.Error("expected Monday to be a weekday")
	}
	if mustDate(t, "2024-03-01").Compare(mustDate(t, "2024-03-04")) != -1 {
		t.Error("expected earlier date to compare as -1")
	}
}

func TestParseRejectsMalformedValues(t *testing.T) {
	if _, err := ParseDate("01/03/2024"); err == nil {
		t.Error("expected error for slash-separated date")
	}
	if _, err := ParseTimeOfDay("9am"); err == nil {
		t.Error("expected error for non HH:MM time")
	}
	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Error("expected error for out-of-range hour")
	}
}

func TestTimeOfDayCompare(t *testing.T) {
	a := TimeOfDay{Hour: 9, Minute: 30}
	b := TimeOfDay{Hour: 10}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("time-of-day ordering is wrong")
	}
}
