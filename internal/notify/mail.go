package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"travelagency/internal/domain/models"
	"travelagency/internal/utils"
)

var mailTemplate = template.Must(template.New("notice").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Title}}</h2>
  <p>{{.Message}}</p>
  {{if .BookingID}}<p>Booking reference: <strong>{{.BookingID}}</strong></p>{{end}}
  <p style="color: #888; font-size: 12px;">Sent {{.Sent}}</p>
</body>
</html>`))

// Mailer emails addressed notifications to the agent they concern.
// System notices have no single recipient and are skipped.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m Mailer) Name() string { return "mail" }

// Enabled reports whether enough SMTP settings are present to send mail.
func (m Mailer) Enabled() bool {
	return strings.TrimSpace(m.Host) != "" && strings.TrimSpace(m.From) != ""
}

func render(n models.Notification) (string, error) {
	var body bytes.Buffer
	err := mailTemplate.Execute(&body, map[string]string{
		"Title":     n.Title,
		"Message":   n.Message,
		"BookingID": n.BookingID,
		"Sent":      utils.FormatDateTime(n.CreatedAt),
	})
	if err != nil {
		return "", fmt.Errorf("render notification email: %w", err)
	}
	return body.String(), nil
}

func (m Mailer) Deliver(ctx context.Context, n models.Notification, recipientEmail string) error {
	if !m.Enabled() || !n.Type.Addressed() || strings.TrimSpace(recipientEmail) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := render(n)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", recipientEmail)
	msg.SetHeader("Subject", n.Title)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	dialer.TLSConfig = &tls.Config{ServerName: m.Host}
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	return nil
}
