package store

import (
	"context"
	"time"
)

// EmailSettings is the single-row outbound email configuration.
type EmailSettings struct {
	ID string `gorm:"primaryKey;size:50;unique" json:"id"`

	AdminEmail string `gorm:"size:256;not null" json:"adminEmail"`
	FromEmail  string `gorm:"size:256;not null" json:"fromEmail"`
	FromName   string `gorm:"size:100;not null" json:"fromName"`

	ReminderHoursBefore int `gorm:"not null;default:24" json:"reminderHoursBefore"`

	SendAdminNotifications  bool `gorm:"not null;default:true" json:"sendAdminNotifications"`
	SendClientNotifications bool `gorm:"not null;default:true" json:"sendClientNotifications"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

// EmailTemplate is one editable notification template, keyed by its
// notification type tag.
type EmailTemplate struct {
	ID           string `gorm:"primaryKey;size:50;unique" json:"id"`
	TemplateType string `gorm:"size:50;not null;unique;index:idx_template_type" json:"templateType"`

	Subject  string `gorm:"size:256;not null" json:"subject"`
	BodyHTML string `gorm:"type:text;not null" json:"bodyHtml"`
	Enabled  bool   `gorm:"not null;default:true" json:"enabled"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

// EmailStore defines the data access interface for email settings and templates
type EmailStore interface {
	// GetSettings returns the email settings row, or ErrNotFound
	GetSettings(ctx context.Context) (*EmailSettings, error)

	// SaveSettings creates or updates the settings row
	SaveSettings(ctx context.Context, settings *EmailSettings) error

	// ListTemplates returns all templates ordered by template type
	ListTemplates(ctx context.Context) ([]*EmailTemplate, error)

	// GetTemplate returns the template for a notification type, or ErrNotFound
	GetTemplate(ctx context.Context, templateType string) (*EmailTemplate, error)

	// SaveTemplate updates a template's subject, body and enabled flag
	SaveTemplate(ctx context.Context, template *EmailTemplate) error
}
