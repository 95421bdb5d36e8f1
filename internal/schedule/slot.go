package schedule

// Hours describes the clinic's bookable day. Opening and Closing are hours
// on the 24-hour clock; SlotMinutes is the length of one appointment slot.
type Hours struct {
	Opening     int
	Closing     int
	SlotMinutes int
}

// DefaultHours is the standard clinic day: 09:00-17:00 in 30-minute slots.
var DefaultHours = Hours{Opening: 9, Closing: 17, SlotMinutes: 30}

// NextSlot computes the next bookable slot for a dentist given their most
// recent appointment. It is a pure function over its inputs.
//
// With no prior appointment the candidate is today at opening time. Otherwise
// the candidate is the last appointment's slot plus one slot length on the
// same date; when that lands at or past closing the candidate moves to the
// next calendar day at opening time. A candidate before opening (possible
// only through clock anomalies in stored data) is clamped to opening. Finally
// weekend dates advance day by day until a weekday, resetting to opening time
// on every advance.
func NextSlot(last *Slot, today Date, h Hours) Slot {
	open := TimeOfDay{Hour: h.Opening}
	var cand Slot
	if last == nil {
		cand = Slot{Date: today, Time: open}
	} else {
		end := last.Time.AddMinutes(h.SlotMinutes)
		if end.Hour >= h.Closing {
			cand = Slot{Date: last.Date.AddDays(1), Time: open}
		} else {
			cand = Slot{Date: last.Date, Time: end}
		}
	}
	if cand.Time.Hour < h.Opening {
		cand.Time = open
	}
	for cand.Date.IsWeekend() {
		cand.Date = cand.Date.AddDays(1)
		cand.Time = open
	}
	return cand
}
