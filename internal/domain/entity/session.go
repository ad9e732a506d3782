package entity

// Step is the closed set of conversation states
type Step string

const (
	StepIdle                   Step = "idle"
	StepChoosingBarber         Step = "choosing_barber"
	StepChoosingServices       Step = "choosing_services"
	StepChoosingDate           Step = "choosing_date"
	StepChoosingSlot           Step = "choosing_slot"
	StepConfirmingName         Step = "confirming_name"
	StepConfirmingCancellation Step = "confirming_cancellation"
	StepAwaitingFeedbackScore  Step = "awaiting_feedback_score"
	StepAwaitingAdminTarget    Step = "awaiting_admin_target_name"
	StepAwaitingAccessRequest  Step = "awaiting_admin_access_request"
)

// DayOption is one entry of the date menu
type DayOption struct {
	Display string
	Value   string // YYYY-MM-DD
}

// Session is the ephemeral per-user conversation state. It is process-local
// and replaced wholesale on each transition; a restart drops in-progress
// (not yet confirmed) bookings.
type Session struct {
	Step     Step
	Barber   *Barber
	Services []Service

	DayOptions  []DayOption
	SlotOptions []string
	ChosenDate  string
	ChosenSlot  string

	PendingCancel         *Appointment
	FeedbackAppointmentID uint

	ContactName  string
	SentIdleHint bool
}

// NewSession returns a fresh idle session
func NewSession() *Session {
	return &Session{Step: StepIdle}
}

// HasExclusive reports whether an exclusive service or the bundle is held
func (s *Session) HasExclusive() bool {
	for _, svc := range s.Services {
		if svc.Exclusive {
			return true
		}
	}
	return false
}

// HasService reports whether a service id is already selected
func (s *Session) HasService(id string) bool {
	for _, svc := range s.Services {
		if svc.ID == id {
			return true
		}
	}
	return false
}

// TotalPrice sums the selected services
func (s *Session) TotalPrice() float64 {
	var total float64
	for _, svc := range s.Services {
		total += svc.Price
	}
	return total
}

// ServiceNames concatenates the selected service names
func (s *Session) ServiceNames() string {
	names := ""
	for i, svc := range s.Services {
		if i > 0 {
			names += " + "
		}
		names += svc.Name
	}
	return names
}
