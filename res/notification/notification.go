package notification

// Type tags a notification with the event that triggered it. The tags double
// as email template keys.
type Type string

const (
	TypeAppointmentCreated   Type = "appointment_created"
	TypeAppointmentConfirmed Type = "appointment_confirmed"
	TypeAppointmentCancelled Type = "appointment_cancelled"
	TypeAppointmentReminder  Type = "appointment_reminder"
	TypeAdminNewBooking      Type = "admin_new_booking"
)

// ValidType reports whether a raw string names a known notification type.
func ValidType(raw string) bool {
	switch Type(raw) {
	case TypeAppointmentCreated, TypeAppointmentConfirmed, TypeAppointmentCancelled,
		TypeAppointmentReminder, TypeAdminNewBooking:
		return true
	}
	return false
}

// Notifier defines the interface for booking notifications. Dispatch is
// fire-and-forget: enqueueing never fails the write path that triggered it.
type Notifier interface {
	// NotifyQuoteCreated queues the appointment_created notification
	NotifyQuoteCreated(quoteID string)

	// NotifyQuoteConfirmed queues the appointment_confirmed notification
	NotifyQuoteConfirmed(quoteID string)

	// NotifyQuoteCancelled queues the appointment_cancelled notification
	NotifyQuoteCancelled(quoteID string)
}
