package http

import (
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shinypath-api/res/schedule"
)

// bookedSnapshot loads the occupied slots from today onward. Availability is
// advisory: when the query fails the form must stay usable, so the snapshot
// degrades to an empty set instead of surfacing the error.
func (s *Server) bookedSnapshot(c *gin.Context, now time.Time) []schedule.BookedSlot {
	rows, err := s.Store.Quotes().ListBookedSlots(c.Request.Context(), now.Format(schedule.DateFormat))
	if err != nil {
		s.Logger.Printf("Error loading booked slots, treating calendar as open: %s", err)
		return nil
	}

	slots := make([]schedule.BookedSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, schedule.BookedSlot{Date: row.Date, Time: row.Time})
	}
	return slots
}

func (s *Server) getAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Missing date parameter"})
		return
	}
	if _, err := time.Parse(schedule.DateFormat, date); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	now := time.Now()
	resolver := schedule.NewResolver(s.bookedSnapshot(c, now), now)

	c.JSON(nethttp.StatusOK, gin.H{
		"date":           date,
		"status":         resolver.DateAvailability(date),
		"bookedTimes":    resolver.BookedTimesForDate(date),
		"availableCount": resolver.AvailableSlotsCount(date),
		"totalSlots":     schedule.TotalDailySlots,
	})
}

func (s *Server) getAvailableTimes(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Missing date parameter"})
		return
	}
	if _, err := time.Parse(schedule.DateFormat, date); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	now := time.Now()
	resolver := schedule.NewResolver(s.bookedSnapshot(c, now), now)

	c.JSON(nethttp.StatusOK, gin.H{
		"date":      date,
		"freeTimes": resolver.FreeTimesForDate(date),
	})
}
