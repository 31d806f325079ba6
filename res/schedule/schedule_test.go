package schedule

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC) // before the first slot

func slotsFor(date string, times ...string) []BookedSlot {
	slots := make([]BookedSlot, 0, len(times))
	for _, slotTime := range times {
		slots = append(slots, BookedSlot{Date: date, Time: slotTime})
	}
	return slots
}

func TestDateAvailabilityThresholds(t *testing.T) {
	date := "2026-03-20"

	cases := []struct {
		booked int
		want   DateAvailability
	}{
		{0, DateAvailable},
		{3, DateAvailable},
		{4, DateLimited},
		{10, DateLimited},
		{11, DateFull},
	}

	for _, tc := range cases {
		resolver := NewResolver(slotsFor(date, TimeSlots[:tc.booked]...), testNow)
		if got := resolver.DateAvailability(date); got != tc.want {
			t.Fatalf("%d booked slots: expected %s, got %s", tc.booked, tc.want, got)
		}
	}
}

func TestAvailableSlotsCount(t *testing.T) {
	date := "2026-03-20"

	resolver := NewResolver(slotsFor(date, TimeSlots[:4]...), testNow)
	if got := resolver.AvailableSlotsCount(date); got != 7 {
		t.Fatalf("expected 7 available slots, got %d", got)
	}
	if got := resolver.DateAvailability(date); got != DateLimited {
		t.Fatalf("expected limited, got %s", got)
	}

	resolver = NewResolver(nil, testNow)
	if got := resolver.AvailableSlotsCount(date); got != TotalDailySlots {
		t.Fatalf("expected full capacity on empty date, got %d", got)
	}
}

func TestCancellationFreesExactlyOneSlot(t *testing.T) {
	date := "2026-03-20"
	booked := slotsFor(date, "08:00", "09:00", "10:00", "11:00", "12:00")

	before := NewResolver(booked, testNow).AvailableSlotsCount(date)

	// A cancelled quote never reaches the resolver; rebuilding without it
	// must recover exactly one slot.
	after := NewResolver(booked[1:], testNow).AvailableSlotsCount(date)

	if after != before+1 {
		t.Fatalf("expected available count to rise by 1 (from %d), got %d", before, after)
	}
}

func TestIsDateFullyBooked(t *testing.T) {
	date := "2026-03-20"

	resolver := NewResolver(slotsFor(date, TimeSlots...), testNow)
	if !resolver.IsDateFullyBooked(date) {
		t.Fatal("all 11 slots booked, expected fully booked")
	}

	resolver = NewResolver(slotsFor(date, TimeSlots[:10]...), testNow)
	if resolver.IsDateFullyBooked(date) {
		t.Fatal("10 of 11 slots booked, expected not fully booked")
	}
}

func TestElapsedTodaySlotsAreIgnored(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	today := "2026-03-10"

	resolver := NewResolver(slotsFor(today, "08:00", "10:00", "14:00"), now)

	booked := resolver.BookedTimesForDate(today)
	if len(booked) != 1 || booked[0] != "14:00" {
		t.Fatalf("expected only the future slot to count as booked, got %v", booked)
	}
	if resolver.IsSlotBooked(today, "08:00") {
		t.Fatal("elapsed slot must not read as booked")
	}
	if got := resolver.AvailableSlotsCount(today); got != TotalDailySlots-1 {
		t.Fatalf("expected %d available, got %d", TotalDailySlots-1, got)
	}
}

func TestPastDatesAreIgnored(t *testing.T) {
	resolver := NewResolver(slotsFor("2026-03-01", TimeSlots...), testNow)

	if got := resolver.DateAvailability("2026-03-01"); got != DateAvailable {
		t.Fatalf("past-dated slots must not occupy anything, got %s", got)
	}
}

func TestFreeTimesForDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC)
	today := "2026-03-10"

	resolver := NewResolver(slotsFor(today, "10:00", "11:00"), now)

	free := resolver.FreeTimesForDate(today)
	// 08:00 and 09:00 have elapsed, 10:00 and 11:00 are booked.
	want := []string{"12:00", "13:00", "14:00", "15:00", "16:00", "17:00", "18:00"}
	if len(free) != len(want) {
		t.Fatalf("expected %d free times, got %v", len(want), free)
	}
	for i, slot := range want {
		if free[i] != slot {
			t.Fatalf("expected free times %v, got %v", want, free)
		}
	}

	future := "2026-03-20"
	if got := resolver.FreeTimesForDate(future); len(got) != TotalDailySlots {
		t.Fatalf("empty future date should offer the full catalog, got %v", got)
	}
}

func TestEmptySnapshotKeepsFormUsable(t *testing.T) {
	// Store failures degrade to an empty snapshot: nothing reads booked.
	resolver := NewResolver(nil, testNow)

	if resolver.IsSlotBooked("2026-03-20", "08:00") {
		t.Fatal("empty snapshot must not report booked slots")
	}
	if got := resolver.DateAvailability("2026-03-20"); got != DateAvailable {
		t.Fatalf("empty snapshot must read available, got %s", got)
	}
}

func TestBlankDateOrTimeRowsAreSkipped(t *testing.T) {
	slots := []BookedSlot{
		{Date: "2026-03-20", Time: ""},
		{Date: "", Time: "08:00"},
		{Date: "2026-03-20", Time: "09:00"},
	}

	resolver := NewResolver(slots, testNow)
	if got := len(resolver.BookedTimesForDate("2026-03-20")); got != 1 {
		t.Fatalf("expected 1 booked time, got %d", got)
	}
}
