package http

import (
	"errors"
	nethttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shinypath-api/res/notification"
	"shinypath-api/res/store"
)

func (s *Server) getEmailSettings(c *gin.Context) {
	settings, err := s.Store.Email().GetSettings(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Nothing saved yet; hand the editor the defaults.
			c.JSON(nethttp.StatusOK, &store.EmailSettings{
				ReminderHoursBefore:     24,
				SendAdminNotifications:  true,
				SendClientNotifications: true,
			})
			return
		}
		s.Logger.Printf("Error loading email settings: %s", err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error loading settings"})
		return
	}

	c.JSON(nethttp.StatusOK, settings)
}

type saveEmailSettingsRequest struct {
	AdminEmail              string `json:"adminEmail"`
	FromEmail               string `json:"fromEmail"`
	FromName                string `json:"fromName"`
	ReminderHoursBefore     int    `json:"reminderHoursBefore"`
	SendAdminNotifications  bool   `json:"sendAdminNotifications"`
	SendClientNotifications bool   `json:"sendClientNotifications"`
}

func (s *Server) saveEmailSettings(c *gin.Context) {
	var req saveEmailSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}

	if !isValidEmail(req.AdminEmail) {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Invalid admin email address"})
		return
	}
	if !isValidEmail(req.FromEmail) {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Invalid sender email address"})
		return
	}
	if len(strings.TrimSpace(req.FromName)) == 0 {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Sender name is required"})
		return
	}
	if req.ReminderHoursBefore < 1 || req.ReminderHoursBefore > 168 {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Reminder must be between 1 and 168 hours"})
		return
	}

	settings := &store.EmailSettings{
		AdminEmail:              req.AdminEmail,
		FromEmail:               req.FromEmail,
		FromName:                strings.TrimSpace(req.FromName),
		ReminderHoursBefore:     req.ReminderHoursBefore,
		SendAdminNotifications:  req.SendAdminNotifications,
		SendClientNotifications: req.SendClientNotifications,
	}

	if err := s.Store.Email().SaveSettings(c.Request.Context(), settings); err != nil {
		s.Logger.Printf("Error saving email settings: %s", err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error saving settings"})
		return
	}

	s.hub.Broadcast("settings", "updated", settings.ID)
	c.JSON(nethttp.StatusOK, settings)
}

func (s *Server) listEmailTemplates(c *gin.Context) {
	templates, err := s.Store.Email().ListTemplates(c.Request.Context())
	if err != nil {
		s.Logger.Printf("Error listing email templates: %s", err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error listing templates"})
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"templates": templates})
}

type saveEmailTemplateRequest struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"bodyHtml"`
	Enabled  bool   `json:"enabled"`
}

func (s *Server) saveEmailTemplate(c *gin.Context) {
	templateType := c.Param("type")
	if !notification.ValidType(templateType) {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Unknown template type"})
		return
	}

	var req saveEmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}
	if len(strings.TrimSpace(req.Subject)) == 0 {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Subject is required"})
		return
	}
	if len(strings.TrimSpace(req.BodyHTML)) == 0 {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Body is required"})
		return
	}

	template := &store.EmailTemplate{
		TemplateType: templateType,
		Subject:      req.Subject,
		BodyHTML:     req.BodyHTML,
		Enabled:      req.Enabled,
	}

	if err := s.Store.Email().SaveTemplate(c.Request.Context(), template); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		s.Logger.Printf("Error saving email template %s: %s", templateType, err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error saving template"})
		return
	}

	s.hub.Broadcast("templates", "updated", templateType)
	c.JSON(nethttp.StatusOK, template)
}
