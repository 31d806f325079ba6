package http

import (
	"testing"
)

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"416", "416"},
		{"41655", "(416) 55"},
		{"4165550134", "(416) 555-0134"},
		{"416-555-0134", "(416) 555-0134"},
		{"(416) 555-0134", "(416) 555-0134"},
		{"1 416 555 0134 99", "(141) 655-5013"},
	}

	for _, tc := range cases {
		if got := formatPhoneNumber(tc.in); got != tc.want {
			t.Fatalf("formatPhoneNumber(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	if !isValidPhone("(416) 555-0134") {
		t.Fatal("formatted 10-digit number should be valid")
	}
	if !isValidPhone("4165550134") {
		t.Fatal("bare 10-digit number should be valid")
	}
	if isValidPhone("555-0134") {
		t.Fatal("7-digit number should be invalid")
	}
	if isValidPhone("") {
		t.Fatal("empty number should be invalid")
	}
}

func validHouseSubmission() submitQuoteRequest {
	return submitQuoteRequest{
		FormType:      "house",
		CleaningType:  "standard",
		Frequency:     "weekly",
		Bathrooms:     "1",
		Bedrooms:      "2",
		PreferredDate: "2026-03-20",
		PreferredTime: "10:00",
		Name:          "Dana Tremblay",
		Email:         "dana@example.com",
		Phone:         "4165550134",
		Address:       "12 Maple St, Toronto",
	}
}

func TestValidateSubmissionAcceptsCompleteHouseForm(t *testing.T) {
	req := validHouseSubmission()
	if violations := validateSubmission(&req); len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestValidateSubmissionReportsAllViolationsAtOnce(t *testing.T) {
	req := submitQuoteRequest{
		FormType: "house",
		Email:    "not-an-email",
		Phone:    "123",
	}

	violations := validateSubmission(&req)

	for _, field := range []string{"name", "email", "phone", "address", "date", "time", "cleaningType", "frequency"} {
		if _, ok := violations[field]; !ok {
			t.Fatalf("expected a violation for %q, got %v", field, violations)
		}
	}
}

func TestValidateSubmissionUnknownFormType(t *testing.T) {
	req := validHouseSubmission()
	req.FormType = "apartment"

	violations := validateSubmission(&req)
	if _, ok := violations["formType"]; !ok {
		t.Fatalf("expected formType violation, got %v", violations)
	}
}

func TestValidateSubmissionContactFormNeedsMessageNotAddress(t *testing.T) {
	req := submitQuoteRequest{
		FormType: "contact",
		Name:     "Dana Tremblay",
		Email:    "dana@example.com",
		Phone:    "4165550134",
	}

	violations := validateSubmission(&req)
	if _, ok := violations["message"]; !ok {
		t.Fatalf("expected message violation for empty contact message, got %v", violations)
	}
	if _, ok := violations["address"]; ok {
		t.Fatalf("contact form should not require an address, got %v", violations)
	}

	req.Details = "Looking for a recurring office clean."
	if violations := validateSubmission(&req); len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestValidateSubmissionOfficeFormSkipsSlotFields(t *testing.T) {
	req := submitQuoteRequest{
		FormType: "office",
		Name:     "Dana Tremblay",
		Email:    "dana@example.com",
		Phone:    "4165550134",
		Address:  "88 King St W, Toronto",
	}

	if violations := validateSubmission(&req); len(violations) != 0 {
		t.Fatalf("office form without date/time should pass, got %v", violations)
	}
}

func TestValidateSubmissionRejectsOffCatalogTime(t *testing.T) {
	req := validHouseSubmission()
	req.PreferredTime = "07:00"

	violations := validateSubmission(&req)
	if _, ok := violations["time"]; !ok {
		t.Fatalf("expected time violation for off-catalog slot, got %v", violations)
	}
}

func TestValidateSubmissionRejectsMalformedDate(t *testing.T) {
	req := validHouseSubmission()
	req.PreferredDate = "20/03/2026"

	violations := validateSubmission(&req)
	if _, ok := violations["date"]; !ok {
		t.Fatalf("expected date violation, got %v", violations)
	}
}
