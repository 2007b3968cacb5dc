// Package notify delivers appointment reminder emails to agents.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"time"

	"coldcall_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers a rendered reminder email.
type Sender interface {
	SendAppointmentReminder(ctx context.Context, toEmail string, data ReminderEmailData) error
}

// ReminderEmailData feeds the reminder template.
type ReminderEmailData struct {
	AgentName     string
	BusinessName  string
	Phone         string
	AppointmentAt string
}

const subjectReminderFmt = "Randevu hatırlatma: %s"

var reminderTemplate = template.Must(template.New("reminder").Parse(`<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Randevu yaklaşıyor</h2>
  <p>Merhaba {{.AgentName}},</p>
  <p><strong>{{.BusinessName}}</strong> ile randevunuz yaklaşıyor.</p>
  <table>
    <tr><td>Firma</td><td><strong>{{.BusinessName}}</strong></td></tr>
    <tr><td>Telefon</td><td>{{.Phone}}</td></tr>
    <tr><td>Randevu</td><td>{{.AppointmentAt}}</td></tr>
  </table>
</body>
</html>`))

// SMTPSender delivers reminders over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender builds a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) SendAppointmentReminder(ctx context.Context, toEmail string, data ReminderEmailData) error {
	var body bytes.Buffer
	if err := reminderTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render reminder email: %w", err)
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(fmt.Sprintf(subjectReminderFmt, data.BusinessName))
	msg.SetBodyString(gomail.TypeTextHTML, body.String())

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// NoopSender satisfies Sender when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendAppointmentReminder(context.Context, string, ReminderEmailData) error {
	return nil
}
