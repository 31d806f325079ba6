package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shinypath-api/res/mail"
	"shinypath-api/res/store"
)

const (
	defaultQueueSize   = 128
	defaultMaxAttempts = 3
	defaultBackoff     = 10 * time.Second
)

// job is one queued notification.
type job struct {
	QuoteID  string
	Type     Type
	Attempts int
}

// Dispatcher is an outbox for booking notification emails. Writes to the
// quote store enqueue a job and return immediately; a background worker loads
// the quote, settings and template, renders and sends. Transient send
// failures are retried with backoff; after maxAttempts the job is logged and
// dropped. A full queue drops the job rather than block the write path.
type Dispatcher struct {
	store       store.Store
	mailService mail.MailService
	logger      *log.Logger
	adminURL    string

	queue       chan job
	maxAttempts int
	backoff     time.Duration
}

func NewDispatcher(s store.Store, mailService mail.MailService, adminURL string, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		store:       s,
		mailService: mailService,
		logger:      logger,
		adminURL:    adminURL,
		queue:       make(chan job, defaultQueueSize),
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
}

func (d *Dispatcher) NotifyQuoteCreated(quoteID string) {
	d.enqueue(job{QuoteID: quoteID, Type: TypeAppointmentCreated})
}

func (d *Dispatcher) NotifyQuoteConfirmed(quoteID string) {
	d.enqueue(job{QuoteID: quoteID, Type: TypeAppointmentConfirmed})
}

func (d *Dispatcher) NotifyQuoteCancelled(quoteID string) {
	d.enqueue(job{QuoteID: quoteID, Type: TypeAppointmentCancelled})
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.queue <- j:
	default:
		d.logger.Printf("Notification queue full, dropping %s for quote %s", j.Type, j.QuoteID)
	}
}

// Run processes queued notifications until the context is cancelled. Call it
// from a dedicated goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-d.queue:
			d.handle(ctx, j)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, j job) {
	err := d.process(ctx, j)
	if err == nil {
		return
	}

	var permanent *permanentError
	if errors.As(err, &permanent) {
		d.logger.Printf("Dropping %s for quote %s: %s", j.Type, j.QuoteID, err)
		return
	}

	j.Attempts++
	if j.Attempts >= d.maxAttempts {
		d.logger.Printf("Giving up on %s for quote %s after %d attempts: %s", j.Type, j.QuoteID, j.Attempts, err)
		return
	}

	d.logger.Printf("Retrying %s for quote %s (attempt %d): %s", j.Type, j.QuoteID, j.Attempts, err)
	select {
	case <-ctx.Done():
	case <-time.After(d.backoff * time.Duration(j.Attempts)):
		d.enqueue(j)
	}
}

// permanentError marks failures retrying cannot fix (missing quote, disabled
// template, unconfigured settings).
type permanentError struct {
	reason string
}

func (e *permanentError) Error() string { return e.reason }

func permanentf(format string, args ...interface{}) error {
	return &permanentError{reason: fmt.Sprintf(format, args...)}
}

func (d *Dispatcher) process(ctx context.Context, j job) error {
	quote, err := d.store.Quotes().Get(ctx, j.QuoteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return permanentf("quote not found: %s", j.QuoteID)
		}
		return fmt.Errorf("load quote: %w", err)
	}

	settings, err := d.store.Email().GetSettings(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return permanentf("email settings not configured")
		}
		return fmt.Errorf("load email settings: %w", err)
	}

	template, err := d.store.Email().GetTemplate(ctx, string(j.Type))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return permanentf("email template not found: %s", j.Type)
		}
		return fmt.Errorf("load email template: %w", err)
	}
	if !template.Enabled {
		return permanentf("email template disabled: %s", j.Type)
	}

	from := fmt.Sprintf("%s <%s>", settings.FromName, settings.FromEmail)

	// Client copy. The admin_new_booking tag is admin-only.
	if j.Type != TypeAdminNewBooking && settings.SendClientNotifications {
		subject := RenderTemplate(template.Subject, quote, d.adminURL)
		body := RenderTemplate(template.BodyHTML, quote, d.adminURL)

		if err := d.mailService.Send(ctx, from, []string{quote.ClientEmail}, subject, body); err != nil {
			return fmt.Errorf("send client email: %w", err)
		}
	}

	// Admin copy. New bookings use the dedicated admin template when it
	// exists; other events reuse the client template with a marked subject.
	if settings.SendAdminNotifications {
		adminTemplate := template
		subjectPrefix := ""

		if j.Type == TypeAppointmentCreated {
			if t, err := d.store.Email().GetTemplate(ctx, string(TypeAdminNewBooking)); err == nil && t.Enabled {
				adminTemplate = t
			}
		} else if j.Type != TypeAdminNewBooking {
			subjectPrefix = "[Admin] "
		}

		subject := subjectPrefix + RenderTemplate(adminTemplate.Subject, quote, d.adminURL)
		body := RenderTemplate(adminTemplate.BodyHTML, quote, d.adminURL)

		if err := d.mailService.Send(ctx, from, []string{settings.AdminEmail}, subject, body); err != nil {
			return fmt.Errorf("send admin email: %w", err)
		}
	}

	return nil
}
