package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle state of a cleaning quote
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"   // Initial state, awaiting admin review
	QuoteStatusConfirmed QuoteStatus = "confirmed" // Appointment confirmed by admin
	QuoteStatusCompleted QuoteStatus = "completed" // Service has been performed
	QuoteStatusCancelled QuoteStatus = "cancelled" // Cancelled; its slot becomes available again
)

// ParseQuoteStatus narrows a raw string into the closed status set.
func ParseQuoteStatus(raw string) (QuoteStatus, bool) {
	switch QuoteStatus(raw) {
	case QuoteStatusPending, QuoteStatusConfirmed, QuoteStatusCompleted, QuoteStatusCancelled:
		return QuoteStatus(raw), true
	}
	return "", false
}

// quoteTransitions defines the status state machine. Status changes happen
// only through explicit admin action; a cancelled quote may be reactivated
// back to pending.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusPending:   {QuoteStatusConfirmed, QuoteStatusCancelled},
	QuoteStatusConfirmed: {QuoteStatusCompleted, QuoteStatusCancelled},
	QuoteStatusCancelled: {QuoteStatusPending},
	QuoteStatusCompleted: {},
}

// CanTransition reports whether a status change is permitted.
func CanTransition(from, to QuoteStatus) bool {
	for _, allowed := range quoteTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CleaningFormType is the category of quote request
type CleaningFormType string

const (
	FormTypeHouse            CleaningFormType = "house"
	FormTypeOffice           CleaningFormType = "office"
	FormTypePostConstruction CleaningFormType = "post-construction"
	FormTypeContact          CleaningFormType = "contact"
)

// ParseFormType narrows a raw string into the closed form-type set.
func ParseFormType(raw string) (CleaningFormType, bool) {
	switch CleaningFormType(raw) {
	case FormTypeHouse, FormTypeOffice, FormTypePostConstruction, FormTypeContact:
		return CleaningFormType(raw), true
	}
	return "", false
}

// CleaningQuote is a submitted quote request. The price breakdown fields are
// copied in at submit time so historical quotes keep the rates they were
// priced at.
type CleaningQuote struct {
	ID       string           `gorm:"primaryKey;size:50;unique" json:"id"`
	FormType CleaningFormType `gorm:"size:30;not null;index:idx_quote_form_type" json:"formType"`

	// Service Details (house form; zero-valued for the other forms)
	CleaningType   string `gorm:"size:30" json:"cleaningType"`
	Frequency      string `gorm:"size:30" json:"frequency"`
	Kitchens       int    `gorm:"not null;default:0" json:"kitchens"`
	Bathrooms      string `gorm:"size:10" json:"bathrooms"` // string counts support half-units, e.g. "1.5"
	Bedrooms       string `gorm:"size:10" json:"bedrooms"`
	LivingRooms    int    `gorm:"not null;default:0" json:"livingRooms"`
	Extras         string `gorm:"type:text" json:"-"` // JSON array of extra keys
	LaundryPersons int    `gorm:"not null;default:0" json:"laundryPersons"`

	// Scheduling
	PreferredDate string `gorm:"size:10;index:idx_quote_date" json:"preferredDate"` // YYYY-MM-DD
	PreferredTime string `gorm:"size:10" json:"preferredTime"`                      // HH:MM, empty when to be confirmed

	// Contact
	ClientName    string `gorm:"size:100;not null" json:"name"`
	ClientEmail   string `gorm:"size:256;not null" json:"email"`
	ClientPhone   string `gorm:"size:20;not null" json:"phone"`
	ClientAddress string `gorm:"size:256" json:"address"`
	Company       string `gorm:"size:100" json:"company"`
	Details       string `gorm:"type:text" json:"details"`

	// Pricing (stored at submit time to preserve historical rates)
	Subtotal decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"subtotal"`
	Discount decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"discount"`
	Total    decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"total"`

	Status QuoteStatus `gorm:"size:20;not null;default:'pending';index:idx_quote_status" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;index:idx_quote_created" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

// BookedSlot is the minimal occupancy view a quote projects onto the calendar.
type BookedSlot struct {
	Date string
	Time string
}

// QuoteFilters contains filter options for listing quotes
type QuoteFilters struct {
	Status    *QuoteStatus
	FormType  *CleaningFormType
	StartDate *string // YYYY-MM-DD, inclusive
	EndDate   *string
	Limit     int
	Offset    int
	OrderBy   string // e.g. "created_at DESC"
}

// QuoteStore defines the data access interface for cleaning quotes
type QuoteStore interface {
	// Create persists a new quote. Status must be pending.
	Create(ctx context.Context, quote *CleaningQuote) error

	// Get retrieves a quote by ID
	Get(ctx context.Context, id string) (*CleaningQuote, error)

	// Update saves a modified quote
	Update(ctx context.Context, quote *CleaningQuote) error

	// Delete hard-deletes a quote with no recovery
	Delete(ctx context.Context, id string) error

	// UpdateStatus transitions a quote's status, enforcing the state machine.
	// Returns ErrInvalidStatusTransition when the change is not permitted.
	UpdateStatus(ctx context.Context, id string, status QuoteStatus) (*CleaningQuote, error)

	// ListAll retrieves quotes with filters, newest first by default
	ListAll(ctx context.Context, filters QuoteFilters) ([]*CleaningQuote, error)

	// ListBookedSlots returns the date/time pairs occupied by non-cancelled,
	// non-completed quotes dated from the given day onward.
	ListBookedSlots(ctx context.Context, from string) ([]BookedSlot, error)
}
