package entity

import (
	"strings"
	"time"
)

// Barber is an immutable config row for one service provider
type Barber struct {
	Name        string `json:"name"`
	CalendarID  string `json:"calendarId"`
	AdminUserID string `json:"adminUserId"`
}

// Service is an immutable catalog row. Exclusive services are primary cuts,
// of which at most one may be selected per appointment; the rest are add-ons.
type Service struct {
	ID        string
	Name      string
	Price     float64
	MenuCode  string
	Exclusive bool
}

// BundleID identifies the synthetic bundle pseudo-service. It counts as the
// selection's exclusive service.
const BundleID = "bundle"

// SlotDuration is the fixed unit length every slot occupies
const SlotDuration = time.Hour

// Catalog is the static configuration consumed by every component
type Catalog struct {
	Barbers       []Barber
	Services      []Service
	Slots         []string
	TimezoneName  string
	ClosedWeekday time.Weekday
	MasterAdmins  []string
}

// DefaultServices is the production service list
func DefaultServices() []Service {
	return []Service{
		{ID: "social_cut", Name: "Classic Cut", Price: 30, MenuCode: "1", Exclusive: true},
		{ID: "fade_razor", Name: "Razor Fade", Price: 35, MenuCode: "2", Exclusive: true},
		{ID: "fade_zero", Name: "Zero Fade", Price: 35, MenuCode: "3", Exclusive: true},
		{ID: "social_scissor", Name: "Scissors-Only Cut", Price: 35, MenuCode: "4", Exclusive: true},
		{ID: "machine_cut", Name: "Clipper-Only Cut", Price: 25, MenuCode: "5", Exclusive: true},
		{ID: "beard_fade", Name: "Faded Beard", Price: 25, MenuCode: "6"},
		{ID: "beard_normal", Name: "Regular Beard", Price: 20, MenuCode: "7"},
		{ID: "color", Name: "Coloring", Price: 20, MenuCode: "8"},
		{ID: "brush", Name: "Blow Dry", Price: 15, MenuCode: "9"},
		{ID: "eyebrow", Name: "Eyebrows", Price: 15, MenuCode: "10"},
		{ID: "hairline", Name: "Neckline Trim", Price: 10, MenuCode: "11"},
	}
}

// DefaultSlots is the fixed daily schedule, one hour per slot
func DefaultSlots() []string {
	return []string{
		"08:00", "09:00", "10:00", "11:00", "12:00",
		"13:00", "14:00", "15:00", "16:00",
		"17:00", "18:00", "19:00",
	}
}

// Bundle returns the synthetic bundle pseudo-service
func (c *Catalog) Bundle() Service {
	return Service{ID: BundleID, Name: "Classic Cut + Regular Beard Bundle", Price: 45, Exclusive: true}
}

// ServiceByCode resolves a menu code ("1".."11", or "P"/"BUNDLE") to a service
func (c *Catalog) ServiceByCode(code string) (Service, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "P" || code == "BUNDLE" {
		return c.Bundle(), true
	}
	for _, s := range c.Services {
		if s.MenuCode == code {
			return s, true
		}
	}
	return Service{}, false
}

// BarberByIndex resolves a 1-based menu index
func (c *Catalog) BarberByIndex(i int) (Barber, bool) {
	if i < 1 || i > len(c.Barbers) {
		return Barber{}, false
	}
	return c.Barbers[i-1], true
}

// BarberByName resolves a case-insensitive barber name
func (c *Catalog) BarberByName(name string) (Barber, bool) {
	for _, b := range c.Barbers {
		if strings.EqualFold(b.Name, strings.TrimSpace(name)) {
			return b, true
		}
	}
	return Barber{}, false
}

// IsAdmin reports whether userID is a barber admin or a master admin
func (c *Catalog) IsAdmin(userID string) bool {
	for _, b := range c.Barbers {
		if b.AdminUserID == userID {
			return true
		}
	}
	for _, id := range c.MasterAdmins {
		if id == userID {
			return true
		}
	}
	return false
}
