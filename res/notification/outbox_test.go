package notification

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"shinypath-api/res/store"
)

// FAKES

type fakeQuoteStore struct {
	store.QuoteStore
	quotes map[string]*store.CleaningQuote
}

func (f *fakeQuoteStore) Get(ctx context.Context, id string) (*store.CleaningQuote, error) {
	quote, ok := f.quotes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return quote, nil
}

type fakeEmailStore struct {
	store.EmailStore
	settings  *store.EmailSettings
	templates map[string]*store.EmailTemplate
}

func (f *fakeEmailStore) GetSettings(ctx context.Context) (*store.EmailSettings, error) {
	if f.settings == nil {
		return nil, store.ErrNotFound
	}
	return f.settings, nil
}

func (f *fakeEmailStore) GetTemplate(ctx context.Context, templateType string) (*store.EmailTemplate, error) {
	template, ok := f.templates[templateType]
	if !ok {
		return nil, store.ErrNotFound
	}
	return template, nil
}

type fakeStore struct {
	store.Store
	quoteStore *fakeQuoteStore
	emailStore *fakeEmailStore
}

func (f *fakeStore) Quotes() store.QuoteStore { return f.quoteStore }
func (f *fakeStore) Email() store.EmailStore  { return f.emailStore }

type sentEmail struct {
	From    string
	To      []string
	Subject string
	Body    string
}

type fakeMailService struct {
	sent []sentEmail
}

func (f *fakeMailService) Send(ctx context.Context, from string, to []string, subject, htmlBody string) error {
	f.sent = append(f.sent, sentEmail{From: from, To: to, Subject: subject, Body: htmlBody})
	return nil
}

func testQuote() *store.CleaningQuote {
	return &store.CleaningQuote{
		ID:            "q_test1",
		FormType:      store.FormTypeHouse,
		CleaningType:  "standard",
		Frequency:     "weekly",
		PreferredDate: "2026-03-20",
		PreferredTime: "10:00",
		ClientName:    "Dana Tremblay",
		ClientEmail:   "dana@example.com",
		ClientPhone:   "(416) 555-0134",
		ClientAddress: "12 Maple St, Toronto",
		Total:         decimal.RequireFromString("151.20"),
		Status:        store.QuoteStatusPending,
	}
}

func testDispatcher(s store.Store, mailService *fakeMailService) *Dispatcher {
	d := NewDispatcher(s, mailService, "https://admin.example.com/admin/submissions",
		log.New(os.Stdout, "(notification_test)", log.LstdFlags))
	d.backoff = time.Millisecond
	return d
}

func baseFixture() (*fakeStore, *fakeMailService) {
	s := &fakeStore{
		quoteStore: &fakeQuoteStore{quotes: map[string]*store.CleaningQuote{"q_test1": testQuote()}},
		emailStore: &fakeEmailStore{
			settings: &store.EmailSettings{
				ID:                      "email_1",
				AdminEmail:              "owner@example.com",
				FromEmail:               "bookings@example.com",
				FromName:                "Shiny Path",
				SendAdminNotifications:  true,
				SendClientNotifications: true,
			},
			templates: map[string]*store.EmailTemplate{
				"appointment_created": {
					TemplateType: "appointment_created",
					Subject:      "We received your request, {{client_name}}",
					BodyHTML:     "<p>{{preferred_date}} at {{preferred_time}}, total ${{total}}</p>",
					Enabled:      true,
				},
				"appointment_confirmed": {
					TemplateType: "appointment_confirmed",
					Subject:      "Confirmed for {{preferred_date}}",
					BodyHTML:     "<p>See you at {{preferred_time}}.</p>",
					Enabled:      true,
				},
				"admin_new_booking": {
					TemplateType: "admin_new_booking",
					Subject:      "New booking from {{client_name}}",
					BodyHTML:     "<p><a href=\"{{admin_url}}\">Review</a></p>",
					Enabled:      true,
				},
			},
		},
	}
	return s, &fakeMailService{}
}

// TESTS

func TestRenderTemplateSubstitution(t *testing.T) {
	quote := testQuote()

	got := RenderTemplate(
		"{{client_name}} / {{cleaning_type}} / {{preferred_date}} / {{preferred_time}} / ${{total}} / {{admin_url}}",
		quote,
		"https://admin.example.com",
	)

	want := "Dana Tremblay / standard / Friday, March 20, 2026 / 10:00 / $151.20 / https://admin.example.com"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderTemplateEmptyTimeReadsToBeConfirmed(t *testing.T) {
	quote := testQuote()
	quote.PreferredTime = ""

	got := RenderTemplate("{{preferred_time}}", quote, "")
	if got != "To be confirmed" {
		t.Fatalf("expected %q, got %q", "To be confirmed", got)
	}
}

func TestRenderTemplateLeavesUnknownPlaceholders(t *testing.T) {
	got := RenderTemplate("{{mystery_field}}", testQuote(), "")
	if got != "{{mystery_field}}" {
		t.Fatalf("unknown placeholder should pass through, got %q", got)
	}
}

func TestProcessCreatedSendsClientAndAdminCopies(t *testing.T) {
	s, mailService := baseFixture()
	d := testDispatcher(s, mailService)

	if err := d.process(context.Background(), job{QuoteID: "q_test1", Type: TypeAppointmentCreated}); err != nil {
		t.Fatalf("process failed: %s", err)
	}

	if len(mailService.sent) != 2 {
		t.Fatalf("expected 2 emails (client + admin), got %d", len(mailService.sent))
	}

	client := mailService.sent[0]
	if client.To[0] != "dana@example.com" {
		t.Fatalf("expected client copy first, got recipient %s", client.To[0])
	}
	if !strings.Contains(client.Subject, "Dana Tremblay") {
		t.Fatalf("client subject not rendered: %q", client.Subject)
	}
	if !strings.Contains(client.Body, "$151.20") {
		t.Fatalf("client body not rendered: %q", client.Body)
	}

	admin := mailService.sent[1]
	if admin.To[0] != "owner@example.com" {
		t.Fatalf("expected admin copy second, got recipient %s", admin.To[0])
	}
	// New bookings use the dedicated admin template, not a prefixed subject.
	if admin.Subject != "New booking from Dana Tremblay" {
		t.Fatalf("expected admin_new_booking template for admin copy, got %q", admin.Subject)
	}
	if !strings.Contains(admin.Body, "https://admin.example.com/admin/submissions") {
		t.Fatalf("admin body missing admin url: %q", admin.Body)
	}
}

func TestProcessConfirmedPrefixesAdminSubject(t *testing.T) {
	s, mailService := baseFixture()
	d := testDispatcher(s, mailService)

	if err := d.process(context.Background(), job{QuoteID: "q_test1", Type: TypeAppointmentConfirmed}); err != nil {
		t.Fatalf("process failed: %s", err)
	}

	if len(mailService.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(mailService.sent))
	}
	admin := mailService.sent[1]
	if !strings.HasPrefix(admin.Subject, "[Admin] ") {
		t.Fatalf("expected admin subject prefix, got %q", admin.Subject)
	}
}

func TestProcessRespectsClientOptOut(t *testing.T) {
	s, mailService := baseFixture()
	s.emailStore.settings.SendClientNotifications = false
	d := testDispatcher(s, mailService)

	if err := d.process(context.Background(), job{QuoteID: "q_test1", Type: TypeAppointmentCreated}); err != nil {
		t.Fatalf("process failed: %s", err)
	}

	if len(mailService.sent) != 1 {
		t.Fatalf("expected only the admin copy, got %d emails", len(mailService.sent))
	}
	if mailService.sent[0].To[0] != "owner@example.com" {
		t.Fatalf("expected admin recipient, got %s", mailService.sent[0].To[0])
	}
}

func TestProcessDisabledTemplateIsPermanent(t *testing.T) {
	s, mailService := baseFixture()
	s.emailStore.templates["appointment_created"].Enabled = false
	d := testDispatcher(s, mailService)

	err := d.process(context.Background(), job{QuoteID: "q_test1", Type: TypeAppointmentCreated})
	if err == nil {
		t.Fatal("expected error for disabled template")
	}
	var permanent *permanentError
	if !errors.As(err, &permanent) {
		t.Fatalf("expected permanent error, got %T: %s", err, err)
	}
	if len(mailService.sent) != 0 {
		t.Fatalf("expected no emails, got %d", len(mailService.sent))
	}
}

func TestProcessMissingQuoteIsPermanent(t *testing.T) {
	s, mailService := baseFixture()
	d := testDispatcher(s, mailService)

	err := d.process(context.Background(), job{QuoteID: "q_gone", Type: TypeAppointmentCreated})
	if err == nil {
		t.Fatal("expected error for missing quote")
	}
	var permanent *permanentError
	if !errors.As(err, &permanent) {
		t.Fatalf("expected permanent error, got %T: %s", err, err)
	}
}

func TestEnqueueNeverBlocks(t *testing.T) {
	s, mailService := baseFixture()
	d := testDispatcher(s, mailService)

	// Without a running worker the queue fills up; enqueueing past capacity
	// must drop, not block the caller.
	for i := 0; i < defaultQueueSize+10; i++ {
		d.NotifyQuoteCreated("q_test1")
	}
}

func TestTotalRendersWithTwoDecimals(t *testing.T) {
	quote := testQuote()
	quote.Total = decimal.NewFromInt(189)

	got := RenderTemplate("{{total}}", quote, "")
	if got != "189.00" {
		t.Fatalf("expected 189.00, got %q", got)
	}
}
