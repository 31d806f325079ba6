package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	netmail "net/mail"
	"strings"
	"time"

	"shinypath-api/res/mail"
)

// ResendService implements the MailService interface using the Resend API
type ResendService struct {
	apiKey     string
	apiBaseURL string
	logger     *log.Logger
	httpClient *http.Client
}

// New creates a new Resend service instance
func New(apiKey, apiURL string, timeout time.Duration, logger *log.Logger) mail.MailService {
	return &ResendService{
		apiKey:     apiKey,
		apiBaseURL: apiURL,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// resendEmailPayload represents the payload for sending emails via Resend API
type resendEmailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// resendEmailResponse represents the response from the Resend emails API
type resendEmailResponse struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// validateEmail validates an email address format using Go's built-in mail parser.
// Returns an error if the email address is malformed or empty.
func (s *ResendService) validateEmail(email string) error {
	_, err := netmail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	return nil
}

// sanitizeInput sanitizes user input to prevent header injection by removing
// control characters, null bytes, and trimming whitespace.
func (s *ResendService) sanitizeInput(input string) string {
	cleaned := strings.ReplaceAll(input, "\x00", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = strings.ReplaceAll(cleaned, "\n", "")
	return strings.TrimSpace(cleaned)
}

// sanitizeResponseBody sanitizes response body for safe inclusion in error messages
func (s *ResendService) sanitizeResponseBody(body string) string {
	// Limit length to prevent log injection and excessive logging
	const maxLength = 200
	sanitized := s.sanitizeInput(body)

	if len(sanitized) > maxLength {
		return sanitized[:maxLength] + "..."
	}
	return sanitized
}

// Send delivers a single HTML email via the Resend API.
// If no API key is configured, this method returns nil (graceful degradation).
func (s *ResendService) Send(ctx context.Context, from string, to []string, subject, htmlBody string) error {
	if s.apiKey == "" {
		s.logger.Printf("Resend API key not configured, skipping email %q", subject)
		return nil
	}

	if len(to) == 0 {
		return fmt.Errorf("email send failed: no recipients")
	}
	for _, recipient := range to {
		if err := s.validateEmail(recipient); err != nil {
			return fmt.Errorf("email send failed: %w", err)
		}
	}
	if err := s.validateEmail(from); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}

	recipients := make([]string, len(to))
	for i, recipient := range to {
		recipients[i] = s.sanitizeInput(recipient)
	}

	payload := resendEmailPayload{
		From:    s.sanitizeInput(from),
		To:      recipients,
		Subject: s.sanitizeInput(subject),
		HTML:    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %w", err)
	}

	url := fmt.Sprintf("%s/emails", s.apiBaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	return s.handleResendResponse(resp, fmt.Sprintf("send %q to %d recipient(s)", subject, len(to)))
}

// handleResendResponse handles and validates responses from the Resend emails API.
func (s *ResendService) handleResendResponse(resp *http.Response, operation string) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	s.logger.Printf("[RESEND_RESPONSE] status=%d operation=%s body_length=%d", resp.StatusCode, operation, len(body))

	var response resendEmailResponse
	if err := json.Unmarshal(body, &response); err != nil {
		s.logger.Printf("Warning: Could not parse Resend response: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg := response.Message
		if msg == "" {
			msg = s.sanitizeResponseBody(string(body))
		}
		return fmt.Errorf("resend API returned status %d: %s", resp.StatusCode, msg)
	}

	s.logger.Printf("[RESEND_SUCCESS] operation=%s id=%s", operation, response.ID)
	return nil
}
