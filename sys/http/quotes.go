package http

import (
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"shinypath-api/res/pricing"
	"shinypath-api/res/store"
	"shinypath-api/sys/http/middleware"
)

type submitQuoteRequest struct {
	FormType string `json:"formType"`

	CleaningType   string   `json:"cleaningType"`
	Frequency      string   `json:"frequency"`
	Kitchens       int      `json:"kitchens"`
	Bathrooms      string   `json:"bathrooms"`
	Bedrooms       string   `json:"bedrooms"`
	LivingRooms    int      `json:"livingRooms"`
	Extras         []string `json:"extras"`
	LaundryPersons int      `json:"laundryPersons"`

	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`

	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company"`
	Details string `json:"details"`
}

type quoteResponse struct {
	*store.CleaningQuote
	Extras    []string                 `json:"extras"`
	Breakdown *pricing.CalculatedPrice `json:"breakdown,omitempty"`
}

func newQuoteResponse(quote *store.CleaningQuote, breakdown *pricing.CalculatedPrice) quoteResponse {
	extras := []string{}
	if quote.Extras != "" {
		// A malformed column value degrades to an empty list.
		_ = json.Unmarshal([]byte(quote.Extras), &extras)
	}
	return quoteResponse{CleaningQuote: quote, Extras: extras, Breakdown: breakdown}
}

// PUBLIC FUNNEL

func (s *Server) submitQuote(c *gin.Context) {
	var req submitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}

	if violations := validateSubmission(&req); len(violations) > 0 {
		c.JSON(nethttp.StatusBadRequest, gin.H{"errors": violations})
		return
	}

	formType, _ := store.ParseFormType(req.FormType)

	extrasJSON, err := json.Marshal(req.Extras)
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}

	quote := &store.CleaningQuote{
		ID:       fmt.Sprintf("q_%s", xid.New().String()),
		FormType: formType,

		CleaningType:   req.CleaningType,
		Frequency:      req.Frequency,
		Kitchens:       req.Kitchens,
		Bathrooms:      req.Bathrooms,
		Bedrooms:       req.Bedrooms,
		LivingRooms:    req.LivingRooms,
		Extras:         string(extrasJSON),
		LaundryPersons: req.LaundryPersons,

		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,

		ClientName:    strings.TrimSpace(req.Name),
		ClientEmail:   strings.TrimSpace(req.Email),
		ClientPhone:   formatPhoneNumber(req.Phone),
		ClientAddress: strings.TrimSpace(req.Address),
		Company:       strings.TrimSpace(req.Company),
		Details:       strings.TrimSpace(req.Details),

		Status: store.QuoteStatusPending,
	}

	// Prices are always recomputed server-side from the active rate table;
	// whatever totals the client showed are advisory only. Only the house
	// funnel carries a priced configuration.
	var breakdown *pricing.CalculatedPrice
	if formType == store.FormTypeHouse {
		calculated := pricing.Calculate(pricing.ServiceRequest{
			CleaningType:   req.CleaningType,
			Frequency:      req.Frequency,
			Kitchens:       req.Kitchens,
			Bathrooms:      req.Bathrooms,
			Bedrooms:       req.Bedrooms,
			LivingRooms:    req.LivingRooms,
			Extras:         req.Extras,
			LaundryPersons: req.LaundryPersons,
		}, s.Pricing.Get(c.Request.Context()))

		quote.Subtotal = calculated.Subtotal
		quote.Discount = calculated.DiscountAmount
		quote.Total = calculated.Total
		breakdown = &calculated
	}

	if err := s.Store.Quotes().Create(c.Request.Context(), quote); err != nil {
		s.Logger.Printf("Error creating quote: %s", err)
		if errors.Is(err, store.ErrInvalidInput) {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Invalid submission"})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error saving submission"})
		return
	}

	s.Notifier.NotifyQuoteCreated(quote.ID)
	s.hub.Broadcast("quotes", "created", quote.ID)

	c.JSON(nethttp.StatusCreated, newQuoteResponse(quote, breakdown))
}

// ADMIN PANEL

func (s *Server) listQuotes(c *gin.Context) {
	filters := store.QuoteFilters{}

	if v := c.Query("status"); v != "" {
		status, ok := store.ParseQuoteStatus(v)
		if !ok {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Unknown status filter"})
			return
		}
		filters.Status = &status
	}
	if v := c.Query("formType"); v != "" {
		formType, ok := store.ParseFormType(v)
		if !ok {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Unknown form type filter"})
			return
		}
		filters.FormType = &formType
	}
	if v := c.Query("from"); v != "" {
		filters.StartDate = &v
	}
	if v := c.Query("to"); v != "" {
		filters.EndDate = &v
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset > 0 {
			filters.Offset = offset
		}
	}

	quotes, err := s.Store.Quotes().ListAll(c.Request.Context(), filters)
	if err != nil {
		s.Logger.Printf("Error listing quotes: %s", err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error listing submissions"})
		return
	}

	responses := make([]quoteResponse, 0, len(quotes))
	for _, quote := range quotes {
		responses = append(responses, newQuoteResponse(quote, nil))
	}
	c.JSON(nethttp.StatusOK, gin.H{"quotes": responses, "count": len(responses)})
}

func (s *Server) getQuote(c *gin.Context) {
	quote, err := s.Store.Quotes().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		s.Logger.Printf("Error retrieving quote %s: %s", c.Param("id"), err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error retrieving submission"})
		return
	}

	c.JSON(nethttp.StatusOK, newQuoteResponse(quote, nil))
}

type updateQuoteRequest struct {
	PreferredDate *string `json:"preferredDate"`
	PreferredTime *string `json:"preferredTime"`

	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Company *string `json:"company"`
	Details *string `json:"details"`
}

func (s *Server) updateQuote(c *gin.Context) {
	var req updateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}

	quote, err := s.Store.Quotes().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		s.Logger.Printf("Error retrieving quote %s: %s", c.Param("id"), err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error retrieving submission"})
		return
	}

	if req.PreferredDate != nil {
		quote.PreferredDate = *req.PreferredDate
	}
	if req.PreferredTime != nil {
		quote.PreferredTime = *req.PreferredTime
	}
	if req.Name != nil {
		quote.ClientName = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if !isValidEmail(*req.Email) {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		quote.ClientEmail = *req.Email
	}
	if req.Phone != nil {
		if !isValidPhone(*req.Phone) {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Invalid phone number"})
			return
		}
		quote.ClientPhone = formatPhoneNumber(*req.Phone)
	}
	if req.Address != nil {
		quote.ClientAddress = strings.TrimSpace(*req.Address)
	}
	if req.Company != nil {
		quote.Company = strings.TrimSpace(*req.Company)
	}
	if req.Details != nil {
		quote.Details = strings.TrimSpace(*req.Details)
	}

	if err := s.Store.Quotes().Update(c.Request.Context(), quote); err != nil {
		s.Logger.Printf("Error updating quote %s: %s", quote.ID, err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error updating submission"})
		return
	}

	s.hub.Broadcast("quotes", "updated", quote.ID)
	c.JSON(nethttp.StatusOK, newQuoteResponse(quote, nil))
}

type updateQuoteStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateQuoteStatus(c *gin.Context) {
	var req updateQuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}

	status, ok := store.ParseQuoteStatus(req.Status)
	if !ok {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	quote, err := s.Store.Quotes().UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "Submission not found"})
		case errors.Is(err, store.ErrInvalidStatusTransition):
			c.JSON(nethttp.StatusConflict, gin.H{"error": fmt.Sprintf("Cannot move submission to %s", status)})
		default:
			s.Logger.Printf("Error updating quote %s status: %s", c.Param("id"), err)
			c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error updating submission"})
		}
		return
	}

	switch status {
	case store.QuoteStatusConfirmed:
		s.Notifier.NotifyQuoteConfirmed(quote.ID)
	case store.QuoteStatusCancelled:
		s.Notifier.NotifyQuoteCancelled(quote.ID)
	}
	s.hub.Broadcast("quotes", "updated", quote.ID)

	c.JSON(nethttp.StatusOK, newQuoteResponse(quote, nil))
}

func (s *Server) deleteQuote(c *gin.Context) {
	id := c.Param("id")

	if err := s.Store.Quotes().Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		s.Logger.Printf("Error deleting quote %s: %s", id, err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error deleting submission"})
		return
	}

	currentUser := middleware.GetCurrentUser(c)
	s.Logger.Printf("Quote %s deleted by %s", id, currentUser.ID)

	s.hub.Broadcast("quotes", "deleted", id)
	c.JSON(nethttp.StatusOK, gin.H{"deleted": id})
}
