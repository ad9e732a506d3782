package entity

import "time"

// BusyInterval is one busy window on an external calendar. AllDay marks a
// full-day event that busies every slot; otherwise [Start, End) is half-open.
type BusyInterval struct {
	Start  time.Time
	End    time.Time
	AllDay bool
}

// Overlaps reports whether the interval overlaps [slotStart, slotEnd)
func (b BusyInterval) Overlaps(slotStart, slotEnd time.Time) bool {
	if b.AllDay {
		return true
	}
	return slotStart.Before(b.End) && slotEnd.After(b.Start)
}
