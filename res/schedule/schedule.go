package schedule

import (
	"time"
)

// DateFormat and TimeFormat are the wire formats for slot dates and times.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// TimeSlots is the fixed daily slot catalog: hourly slots from 08:00 to 18:00.
var TimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

// TotalDailySlots is the bookable capacity of a single day.
const TotalDailySlots = 11

// limitedThreshold is the booked-slot count at which a day stops reading as
// freely available.
const limitedThreshold = 4

// DateAvailability classifies how booked a calendar date is.
type DateAvailability string

const (
	DateAvailable DateAvailability = "available"
	DateLimited   DateAvailability = "limited"
	DateFull      DateAvailability = "full"
)

// BookedSlot is one occupied date/time pair derived from a non-cancelled,
// non-completed quote.
type BookedSlot struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM
}

// Resolver answers availability questions for calendar dates from a snapshot
// of occupied slots. Slots whose time has already elapsed today are dropped at
// construction: a past slot neither counts as booked nor blocks new same-day
// bookings. The snapshot is advisory; when the booking query fails the caller
// builds a Resolver over an empty set so the form stays usable.
type Resolver struct {
	byDate map[string][]string
	now    time.Time
}

func NewResolver(slots []BookedSlot, now time.Time) *Resolver {
	r := &Resolver{
		byDate: make(map[string][]string),
		now:    now,
	}

	today := now.Format(DateFormat)
	for _, slot := range slots {
		if slot.Date == "" || slot.Time == "" {
			continue
		}
		if slot.Date < today {
			continue
		}
		if slot.Date == today && slotElapsed(slot.Time, now) {
			continue
		}
		r.byDate[slot.Date] = append(r.byDate[slot.Date], slot.Time)
	}

	return r
}

// slotElapsed reports whether a same-day slot's start time is already in the
// past relative to now.
func slotElapsed(slotTime string, now time.Time) bool {
	parsed, err := time.Parse(TimeFormat, slotTime)
	if err != nil {
		return false
	}
	slotStart := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	return !slotStart.After(now)
}

// BookedTimesForDate returns the occupied times on a date.
func (r *Resolver) BookedTimesForDate(date string) []string {
	times := r.byDate[date]
	out := make([]string, len(times))
	copy(out, times)
	return out
}

// IsSlotBooked reports whether a specific date/time pair is occupied.
func (r *Resolver) IsSlotBooked(date, slotTime string) bool {
	for _, booked := range r.byDate[date] {
		if booked == slotTime {
			return true
		}
	}
	return false
}

// IsDateFullyBooked reports whether a date has no capacity left.
func (r *Resolver) IsDateFullyBooked(date string) bool {
	return len(r.byDate[date]) >= TotalDailySlots
}

// DateAvailability classifies a date: 0-3 booked slots read available, 4-10
// limited, 11+ full.
func (r *Resolver) DateAvailability(date string) DateAvailability {
	booked := len(r.byDate[date])
	switch {
	case booked >= TotalDailySlots:
		return DateFull
	case booked >= limitedThreshold:
		return DateLimited
	default:
		return DateAvailable
	}
}

// AvailableSlotsCount returns the remaining capacity on a date, never below
// zero.
func (r *Resolver) AvailableSlotsCount(date string) int {
	remaining := TotalDailySlots - len(r.byDate[date])
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FreeTimesForDate lists the catalog slots still selectable on a date:
// unoccupied, and for today not yet elapsed.
func (r *Resolver) FreeTimesForDate(date string) []string {
	today := r.now.Format(DateFormat)
	free := make([]string, 0, TotalDailySlots)
	for _, slot := range TimeSlots {
		if r.IsSlotBooked(date, slot) {
			continue
		}
		if date == today && slotElapsed(slot, r.now) {
			continue
		}
		free = append(free, slot)
	}
	return free
}
