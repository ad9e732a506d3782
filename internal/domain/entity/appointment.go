package entity

import "time"

// Appointment is a persisted booking. The (BarberName, Date, Slot) tuple is
// unique at the storage layer; that constraint is what prevents
// double-booking once two availability checks race.
type Appointment struct {
	ID              uint
	BarberName      string
	Date            string // YYYY-MM-DD
	Slot            string // HH:MM, from the catalog slot list
	Services        string // concatenated service description
	Price           float64
	ClientName      string
	UserID          string // stable messaging handle of the client
	CalendarEventID string
	FeedbackScore   *int // 0-10, nil until the client answers
	CreatedAt       time.Time
}
