package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"path/filepath"
	"strings"

	"coach-portal-api/core/config"
)

// TemplateData is the model passed to email templates.
type TemplateData struct {
	RecipientName string
	SessionType   string
	SessionDate   string
	Status        string
	Message       string
}

// SendTemplateEmailFromTemplatesDir renders templates/<templateName> and
// sends it over SMTP to the given recipients.
func SendTemplateEmailFromTemplatesDir(to []string, subject, templateName string, data TemplateData) error {
	cfg, ok := config.GetSafe()
	if !ok {
		return fmt.Errorf("config not initialized")
	}
	if cfg.SMTP.Host == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	tmpl, err := template.ParseFiles(filepath.Join("templates", templateName))
	if err != nil {
		return fmt.Errorf("failed to parse email template %s: %w", templateName, err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template %s: %w", templateName, err)
	}

	var msg bytes.Buffer
	msg.WriteString("From: " + cfg.SMTP.From + "\r\n")
	msg.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	auth := smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)
	return smtp.SendMail(addr, auth, cfg.SMTP.From, to, msg.Bytes())
}
