package entity

import "time"

// ActionKind is the kind of a deferred action
type ActionKind string

const (
	ActionReminder        ActionKind = "reminder"
	ActionFeedbackRequest ActionKind = "feedback_request"
)

// ScheduledAction is a persisted time-triggered side effect. At most one
// pending action exists per (AppointmentID, Kind); an action is removed only
// once its effect has been delivered or judged no longer applicable.
type ScheduledAction struct {
	ID            uint
	UserID        string
	Kind          ActionKind
	FireAt        time.Time
	AppointmentID uint
	SlotKey       string // denormalized "YYYY-MM-DD HH:MM" of the appointment
	CreatedAt     time.Time
}
