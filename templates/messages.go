// Package templates builds the outbound message texts.
package templates

import (
	"fmt"
	"strings"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/pkg/timeutil"
)

const divider = "------------------------------"

func price(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// IdleHint is the one-time onboarding message
func IdleHint() string {
	return "Hello! Type *BOOK* to see available times, or *CANCEL BOOKING* to manage an existing appointment."
}

// BarberMenu lists the barbers to choose from
func BarberMenu(barbers []entity.Barber) string {
	var b strings.Builder
	b.WriteString("💈 *Which barber would you like to book with?*\n" + divider + "\n")
	for i, barber := range barbers {
		fmt.Fprintf(&b, "*%d.* %s\n", i+1, barber.Name)
	}
	b.WriteString(divider + "\n\n💡 Reply with the *number* or the barber's *name*. Type \"cancel\" at any time.")
	return b.String()
}

// ServiceMenu renders the service catalog. The cuts/bundle section only
// shows while no exclusive service is held.
func ServiceMenu(catalog *entity.Catalog, current []entity.Service) string {
	var b strings.Builder
	b.WriteString("✂️ *Choose a Service* ✂️\n\n")

	hasExclusive := false
	var total float64
	names := make([]string, 0, len(current))
	for _, s := range current {
		if s.Exclusive {
			hasExclusive = true
		}
		total += s.Price
		names = append(names, s.Name)
	}

	if len(current) > 0 {
		fmt.Fprintf(&b, "✅ *Selected:* %s | Total: %s\n%s\n", strings.Join(names, " + "), price(total), divider)
	}

	if !hasExclusive {
		b.WriteString("💇 *CUTS & STYLES*\n" + divider + "\n")
		for _, s := range catalog.Services {
			if s.Exclusive {
				fmt.Fprintf(&b, "%s. %s | %s\n", s.MenuCode, s.Name, price(s.Price))
			}
		}
		b.WriteString(divider + "\n")

		bundle := catalog.Bundle()
		b.WriteString("\n📦 *BUNDLES*\n" + divider + "\n")
		fmt.Fprintf(&b, "*P.* %s | *%s*\n", bundle.Name, price(bundle.Price))
		b.WriteString(divider + "\n")
	}

	b.WriteString("\n✨ *ADD-ONS*\n" + divider + "\n")
	for _, s := range catalog.Services {
		if !s.Exclusive {
			fmt.Fprintf(&b, "%s. %s | %s\n", s.MenuCode, s.Name, price(s.Price))
		}
	}
	b.WriteString(divider + "\n")

	b.WriteString("\n💡 Reply with the *number*, *P* for the bundle, or *CONTINUE* to pick a date.")
	return b.String()
}

// DateMenu shows the booking summary and the selectable days
func DateMenu(barberName, serviceNames string, total float64, days []entity.DayOption) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 *Summary:* %s | %s | %s\n\n*Choose a date:*\n", barberName, serviceNames, price(total))
	for i, day := range days {
		fmt.Fprintf(&b, "*%d* - %s\n", i+1, day.Display)
	}
	return b.String()
}

// SlotsMenu lists the available times for the chosen date
func SlotsMenu(slots []string) string {
	if len(slots) == 0 {
		return "Sorry, there are no available times on that date."
	}
	var b strings.Builder
	b.WriteString("🕒 *Available times*:\n")
	for i, s := range slots {
		fmt.Fprintf(&b, "%d - %s\n", i+1, s)
	}
	b.WriteString("\nReply with the *number* of the time you want.")
	return b.String()
}

// AskName confirms the selection and asks for the client's full name
func AskName(barberName, date, slot, serviceNames string, total float64) string {
	return fmt.Sprintf("✅ *Confirmation:*\nBarber: %s\nDate: %s at %s\nServices: %s\nTotal: %s\n\n*What is your full name for the booking?*",
		barberName, timeutil.DisplayDate(date), slot, serviceNames, price(total))
}

// BookingConfirmed is the final confirmation sent to the client
func BookingConfirmed(a *entity.Appointment) string {
	return fmt.Sprintf("🎉 *Booking Confirmed!*\n\n💈 *Barber:* %s\n📅 *Date:* %s\n⏰ *Time:* %s\n📝 *Services:* %s\n💰 *Total:* %s\n\n*Heads up:* we'll message you 30 minutes before your time!",
		a.BarberName, timeutil.DisplayDate(a.Date), a.Slot, a.Services, price(a.Price))
}

// AdminNewBooking notifies the barber's admin contact
func AdminNewBooking(a *entity.Appointment) string {
	return fmt.Sprintf("🔔 *NEW BOOKING*\nBarber: %s\nClient: %s\nDate: %s at %s",
		a.BarberName, a.ClientName, timeutil.DisplayDate(a.Date), a.Slot)
}

// Reminder is sent 30 minutes before the slot
func Reminder(a *entity.Appointment) string {
	return fmt.Sprintf("🔔 *Reminder:* your *%s* appointment with *%s* is in *30 minutes*, at *%s* on %s. Please be on time!",
		a.Services, a.BarberName, a.Slot, timeutil.DisplayDate(a.Date))
}

// FeedbackRequest asks for a 0-10 score
func FeedbackRequest(a *entity.Appointment) string {
	return fmt.Sprintf("✂️ *Hi, %s!* We hope you enjoyed the *%s* service by *%s* that just wrapped up.\n\nFrom 0 to 10, *how much did you like it?* (0 is very bad, 10 is very good.)\n\nPlease reply with just the number (e.g. 9).",
		a.ClientName, a.Services, a.BarberName)
}

// FeedbackThanks acknowledges the score
func FeedbackThanks() string {
	return "⭐ Thank you for your feedback! It means a lot to us."
}

// FeedbackInvalid re-prompts on a bad score
func FeedbackInvalid() string {
	return "⚠️ Invalid reply. Please send a single number from 0 to 10."
}

// ConfirmCancellation asks the client to confirm cancelling an appointment
func ConfirmCancellation(a *entity.Appointment) string {
	return fmt.Sprintf("🚨 *Cancellation Confirmation*\n\nDo you want to cancel your *%s* booking with *%s* on %s at %s?\n\n*1 - Yes, cancel*\n*2 - No, keep it*",
		a.Services, a.BarberName, timeutil.DisplayDate(a.Date), a.Slot)
}

// Cancellation flow replies
func CancellationDone() string {
	return "✅ Booking cancelled successfully."
}

func CancellationFailed() string {
	return "❌ Something went wrong cancelling your booking. Try again or contact the shop."
}

func CancellationKept() string {
	return "✅ Your booking is unchanged."
}

func NoUpcomingBooking() string {
	return "❌ You have no upcoming bookings to cancel."
}

// Flow errors and resets
func FlowCancelled() string {
	return "❌ Cancelled. Type \"BOOK\" to start over."
}

func InvalidBarberChoice() string {
	return "⚠️ Invalid option. Reply with the *number* or the *name* of the barber."
}

func InvalidServiceChoice() string {
	return "⚠️ Invalid option. Reply with the service *number*, *P* for the bundle, or *CONTINUE*."
}

func OnlyOneCut() string {
	return "⚠️ You can only pick one cut or bundle. Type \"CONTINUE\" to choose a date."
}

func NeedCutFirst() string {
	return "⚠️ Please pick a *cut* (1-5) or the *bundle* (P) before adding extras."
}

func NeedCutBeforeContinue() string {
	return "⚠️ Please pick at least one *cut* (1-5) or the *bundle* (P) before continuing."
}

func NeedAnyService() string {
	return "⚠️ You need to pick at least one service."
}

func DuplicateAddOn(name string) string {
	return fmt.Sprintf("⚠️ \"%s\" is already on your list. Type \"CONTINUE\" or pick another add-on.", name)
}

func ServiceAdded(name string) string {
	return fmt.Sprintf("✅ %s added. You can add *extras* or type *CONTINUE* to choose a date.", name)
}

func BundleSelected(name string) string {
	return fmt.Sprintf("✅ %s added. Type *CONTINUE* to choose a date.", name)
}

func NoAvailability(barberName string) string {
	return fmt.Sprintf("❌ No available times with *%s* in the coming days.", barberName)
}

func InvalidDateChoice() string {
	return "⚠️ Invalid option. Reply with the *number* of the date you want."
}

func InvalidSlotChoice() string {
	return "⚠️ Invalid option. Reply with the *number* of the time you want."
}

func SlotsGone(display string) string {
	return fmt.Sprintf("❌ Bad luck! The times on %s were just taken. Type \"BOOK\" to start over.", display)
}

func NameTooShort() string {
	return "⚠️ Please send your full name for the booking."
}

func CalendarWriteError() string {
	return "❌ *ERROR:* we could not reach the shop calendar, so your booking was not completed. Please try again later."
}

func SlotTakenError() string {
	return "❌ *ERROR:* that time may have just been taken by another client. Please try again."
}

func GenericError() string {
	return "❌ Something went wrong on our side. Please try again."
}

// Admin surface
func AccessDenied() string {
	return "❌ *Access Denied.*"
}

func AccessDeniedWithRequest() string {
	return "❌ *Access Denied.*\nReply *1* to request access from the admin."
}

func AccessRequestSent() string {
	return "✅ Request sent."
}

func AccessRequestCancelled() string {
	return "Cancelled."
}

func AccessRequestNotification(contactName, userID string) string {
	return fmt.Sprintf("🔔 *ADMIN REQUEST:* %s\nHandle: `%s`", contactName, userID)
}

func AdminAskBarber() string {
	return "🔒 *Admin:* which barber do you want to look up? (e.g. Ricardo)"
}

func AdminNothingFound(name string) string {
	return fmt.Sprintf("⚠️ Nothing found for \"%s\".", name)
}

func ClearUsage() string {
	return "🔒 *Admin:* usage: !CLEARCAL BARBER_NAME YYYY-MM-DD\nE.g. *!CLEARCAL ALEXANDRE 2025-12-01*"
}

func ClearUnknownBarber(name string) string {
	return fmt.Sprintf("⚠️ Barber \"%s\" not found.", name)
}

func ClearBadDate() string {
	return "⚠️ Invalid date format. Use YYYY-MM-DD (e.g. 2025-12-01)."
}

func ClearStarting(barberName, date string) string {
	return fmt.Sprintf("⏳ Cleaning up *%s*'s calendar for *%s*...", barberName, date)
}

func ClearDone(count int, date string) string {
	if count == 0 {
		return fmt.Sprintf("✅ Cleanup finished. No booking events found for %s.", date)
	}
	return fmt.Sprintf("✅ Cleanup finished. *%d* booking events deleted for %s.", count, date)
}

func ClearError() string {
	return "❌ Error talking to the calendar. Check the logs."
}

// WeeklySchedule renders the week-ahead report for a barber
func WeeklySchedule(barberName, fromDate, toDate string, rows []*entity.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 *Weekly Schedule: %s*\n(From %s to %s)\n", barberName, timeutil.DisplayDate(fromDate), timeutil.DisplayDate(toDate))

	currentDay := ""
	for _, row := range rows {
		day := timeutil.DisplayDate(row.Date)
		if day != currentDay {
			fmt.Fprintf(&b, "\n🔻 *%s*:", day)
			currentDay = day
		}
		fmt.Fprintf(&b, "\n⏰ %s - %s (%s)", row.Slot, row.ClientName, row.Services)
	}

	return b.String()
}
