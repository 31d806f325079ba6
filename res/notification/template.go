package notification

import (
	"strings"
	"time"

	"shinypath-api/res/store"
)

// RenderTemplate substitutes the {{variable}} placeholders an email template
// may carry with the quote's values. Unknown placeholders are left untouched.
func RenderTemplate(template string, quote *store.CleaningQuote, adminURL string) string {
	replacer := strings.NewReplacer(
		"{{client_name}}", quote.ClientName,
		"{{client_email}}", quote.ClientEmail,
		"{{client_phone}}", quote.ClientPhone,
		"{{client_address}}", quote.ClientAddress,
		"{{cleaning_type}}", quote.CleaningType,
		"{{frequency}}", quote.Frequency,
		"{{preferred_date}}", formatLongDate(quote.PreferredDate),
		"{{preferred_time}}", formatTime(quote.PreferredTime),
		"{{total}}", quote.Total.StringFixed(2),
		"{{admin_url}}", adminURL,
	)
	return replacer.Replace(template)
}

// formatLongDate renders a YYYY-MM-DD date in long form, e.g.
// "Friday, March 20, 2026". Unparseable input passes through unchanged.
func formatLongDate(date string) string {
	if date == "" {
		return ""
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Monday, January 2, 2006")
}

func formatTime(slotTime string) string {
	if slotTime == "" {
		return "To be confirmed"
	}
	return slotTime
}
