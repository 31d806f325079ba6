package http

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"shinypath-api/res/schedule"
	"shinypath-api/res/store"
)

const (
	nameLengthLimit    = 100
	emailLengthLimit   = 256
	addressLengthLimit = 256
	companyLengthLimit = 100
	detailsLengthLimit = 5000
)

// formatPhoneNumber normalizes a phone number to (XXX) XXX-XXXX. Partial
// numbers come back partially formatted; non-digits are stripped first.
func formatPhoneNumber(value string) string {
	if value == "" {
		return value
	}

	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	phoneNumber := digits.String()

	if len(phoneNumber) <= 3 {
		return phoneNumber
	}
	if len(phoneNumber) <= 6 {
		return "(" + phoneNumber[:3] + ") " + phoneNumber[3:]
	}
	if len(phoneNumber) > 10 {
		phoneNumber = phoneNumber[:10]
	}
	return "(" + phoneNumber[:3] + ") " + phoneNumber[3:6] + "-" + phoneNumber[6:]
}

// isValidPhone accepts any formatting as long as exactly 10 digits remain.
func isValidPhone(value string) bool {
	count := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count == 10
}

func isValidEmail(value string) bool {
	if utf8.RuneCountInString(value) > emailLengthLimit {
		return false
	}
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

// validateSubmission checks a quote submission and reports every violation at
// once, keyed by field, so the client can surface them all in a single pass.
func validateSubmission(req *submitQuoteRequest) map[string]string {
	violations := map[string]string{}

	if len(strings.TrimSpace(req.Name)) == 0 {
		violations["name"] = "Name is required"
	} else if utf8.RuneCountInString(req.Name) > nameLengthLimit {
		violations["name"] = "Name is too long"
	}

	if len(strings.TrimSpace(req.Email)) == 0 {
		violations["email"] = "Email is required"
	} else if !isValidEmail(req.Email) {
		violations["email"] = "Invalid email address"
	}

	if len(strings.TrimSpace(req.Phone)) == 0 {
		violations["phone"] = "Phone is required"
	} else if !isValidPhone(req.Phone) {
		violations["phone"] = "Invalid phone number"
	}

	formType, ok := store.ParseFormType(req.FormType)
	if !ok {
		violations["formType"] = "Unknown form type"
		return violations
	}

	// The contact form has no address; every cleaning form requires one.
	if formType != store.FormTypeContact {
		if len(strings.TrimSpace(req.Address)) == 0 {
			violations["address"] = "Address is required"
		} else if utf8.RuneCountInString(req.Address) > addressLengthLimit {
			violations["address"] = "Address is too long"
		}
	}

	if formType == store.FormTypeContact && len(strings.TrimSpace(req.Details)) == 0 {
		violations["message"] = "Message is required"
	}
	if utf8.RuneCountInString(req.Details) > detailsLengthLimit {
		violations["message"] = "Message is too long"
	}
	if utf8.RuneCountInString(req.Company) > companyLengthLimit {
		violations["company"] = "Company name is too long"
	}

	// Only the house form books a concrete slot at submission time.
	if formType == store.FormTypeHouse {
		if req.PreferredDate == "" {
			violations["date"] = "Date is required"
		} else if _, err := time.Parse(schedule.DateFormat, req.PreferredDate); err != nil {
			violations["date"] = "Invalid date"
		}

		if req.PreferredTime == "" {
			violations["time"] = "Time is required"
		} else if !isCatalogTime(req.PreferredTime) {
			violations["time"] = "Invalid time slot"
		}

		if req.CleaningType == "" {
			violations["cleaningType"] = "Type of cleaning is required"
		}
		if req.Frequency == "" {
			violations["frequency"] = "Frequency is required"
		}
	} else {
		// Optional on the other forms, but still well-formed when present.
		if req.PreferredDate != "" {
			if _, err := time.Parse(schedule.DateFormat, req.PreferredDate); err != nil {
				violations["date"] = "Invalid date"
			}
		}
		if req.PreferredTime != "" && !isCatalogTime(req.PreferredTime) {
			violations["time"] = "Invalid time slot"
		}
	}

	return violations
}

func isCatalogTime(value string) bool {
	for _, slot := range schedule.TimeSlots {
		if slot == value {
			return true
		}
	}
	return false
}
