package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/mail"
	"net/smtp"
	"regexp"
	"time"

	"github.com/harshraj001/AquaVision/services/api/config"
)

// Link is the content of one export email.
type Link struct {
	To        string
	Name      string
	URL       string
	StateName string
	District  string
	ExpiresIn time.Duration
	Generated time.Time
}

// Location renders the export scope for humans.
func (l Link) Location() string {
	if l.District != "" {
		return fmt.Sprintf("%s district, %s", l.District, l.StateName)
	}
	return "all districts in " + l.StateName
}

// Mailer delivers export links.
type Mailer interface {
	SendExportLink(ctx context.Context, link Link) error
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether addr looks like a deliverable address.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends HTML mail through an authenticated relay.
type SMTPMailer struct {
	cfg  config.SMTPConfig
	send sendFunc
}

// NewSMTPMailer returns a mailer for cfg.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// SendExportLink mails the download link. net/smtp has no context support so
// ctx is only checked before dialing.
func (m *SMTPMailer) SendExportLink(ctx context.Context, link Link) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.compose(link)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := m.send(m.cfg.Addr(), auth, m.cfg.From, []string{link.To}, msg); err != nil {
		return fmt.Errorf("send export mail to %s: %w", link.To, err)
	}
	return nil
}

func (m *SMTPMailer) compose(link Link) ([]byte, error) {
	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, link); err != nil {
		return nil, fmt.Errorf("render export mail: %w", err)
	}

	from := mail.Address{Name: m.cfg.FromName, Address: m.cfg.From}
	to := mail.Address{Name: link.Name, Address: link.To}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", to.String())
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", "Your Groundwater Data Export - "+link.Location()))
	fmt.Fprintf(&msg, "Date: %s\r\n", link.Generated.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

var emailTemplate = template.Must(template.New("export").Funcs(template.FuncMap{
	"hours": func(d time.Duration) int { return int(d.Hours()) },
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: 'Segoe UI', Arial, sans-serif; line-height: 1.6; color: #334155;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #0ea5e9; padding: 30px; text-align: center; border-radius: 12px 12px 0 0;">
      <h1 style="color: white; margin: 0;">AquaVision India</h1>
      <p style="color: white; margin: 10px 0 0 0;">Groundwater Monitoring Platform</p>
    </div>
    <div style="background: #f8fafc; padding: 30px; border: 1px solid #e2e8f0;">
      <p>Hello <strong>{{.Name}}</strong>,</p>
      <p>Your groundwater data export is ready for download!</p>
      <p>
        <strong>Location:</strong> {{.Location}}<br>
        <strong>Format:</strong> CSV (Comma Separated Values)<br>
        <strong>Generated:</strong> {{.Generated.Format "Monday, 2 January 2006"}}
      </p>
      <p style="text-align: center;">
        <a href="{{.URL}}" style="background: #0284c7; color: white; padding: 14px 28px; text-decoration: none; border-radius: 8px;">Download CSV Data</a>
      </p>
      <p style="color: #64748b; font-size: 14px;"><em>Note: This download link will expire in {{hours .ExpiresIn}} hours.</em></p>
      <p>Thank you for using AquaVision India for your groundwater research!</p>
    </div>
    <div style="text-align: center; padding: 20px; color: #64748b; font-size: 12px;">
      <p>This is an automated email from AquaVision India.</p>
      <p>Data Source: Central Ground Water Board (CGWB) Yearbook 2023-24</p>
    </div>
  </div>
</body>
</html>
`))

// LogMailer writes the link to the log. Used when no relay is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendExportLink(_ context.Context, link Link) error {
	m.Logger.Info("export link ready (mail disabled)",
		"to", link.To,
		"location", link.Location(),
		"url", link.URL,
	)
	return nil
}
