package email

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// ErrNotConfigured is returned when no SMTP host is set.
var ErrNotConfigured = errors.New("email: SMTP is not configured")

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Attachment is a file sent along with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DocumentMail describes a document being sent to its recipient.
type DocumentMail struct {
	To            string
	RecipientName string
	IssuerName    string
	DocumentTitle string
	Number        string
	Date          string
	Total         string
	TotalInWords  string
	PDF           Attachment
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   sendFunc
	tmpl   *template.Template
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{
		config: config,
		send:   smtp.SendMail,
		tmpl:   template.Must(template.New("document").Parse(documentTemplate)),
	}
}

// IsConfigured reports whether an SMTP host and sender are set.
func (s *EmailService) IsConfigured() bool {
	return s.config.SMTPHost != "" && s.config.FromEmail != ""
}

// SendDocument mails a rendered document to its recipient with the PDF attached.
func (s *EmailService) SendDocument(mail DocumentMail) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if mail.To == "" {
		return errors.New("email: recipient address is empty")
	}

	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, mail); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("%s %s from %s", mail.DocumentTitle, mail.Number, mail.IssuerName)
	message, err := s.buildMessage(mail.To, subject, body.String(), []Attachment{mail.PDF})
	if err != nil {
		return err
	}
	return s.sendEmail(mail.To, message)
}

func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage assembles a multipart/mixed message with an HTML body.
func (s *EmailService) buildMessage(to, subject, htmlBody string, attachments []Attachment) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	from := s.config.FromEmail
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.config.FromName), s.config.FromEmail)
	}
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	htmlPart, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="UTF-8"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	for _, a := range attachments {
		if len(a.Data) == 0 {
			continue
		}
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {fmt.Sprintf("%s; name=%q", contentType, a.Filename)},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.Filename)},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(wrapBase64(a.Data)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapBase64 encodes data in 76 character lines as required by RFC 2045.
func wrapBase64(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	return []byte(b.String())
}

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.DocumentTitle}} {{.Number}}</title></head>
<body style="margin: 0; padding: 24px; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; border-collapse: collapse;">
        <tr>
            <td style="padding: 24px 30px; border-bottom: 1px solid #e2e8f0;">
                <h2 style="color: #1a1a2e; margin: 0; font-size: 20px;">{{.IssuerName}}</h2>
            </td>
        </tr>
        <tr>
            <td style="padding: 24px 30px; color: #4a5568; font-size: 15px; line-height: 1.6;">
                <p style="margin: 0 0 16px 0;">Dear {{.RecipientName}},</p>
                <p style="margin: 0 0 16px 0;">Please find attached {{.DocumentTitle}} <strong>{{.Number}}</strong> dated {{.Date}}.</p>
                <p style="margin: 0 0 8px 0;">Amount: <strong>&#8377; {{.Total}}</strong></p>
                <p style="margin: 0 0 16px 0; font-style: italic;">{{.TotalInWords}}</p>
                <p style="margin: 0;">Regards,<br>{{.IssuerName}}</p>
            </td>
        </tr>
    </table>
</body>
</html>
`
