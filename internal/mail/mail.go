// Package mail sends transactional email.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	applog "puravida/internal/log"
)

type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMTPSender delivers through an SMTP relay with PLAIN auth.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
}

func NewSMTPSender(host string, port int, user, pass string) (*SMTPSender, error) {
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if port == 0 {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	return &SMTPSender{Host: host, Port: port, Username: user, Password: pass}, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := Compose(m)
	if err != nil {
		return err
	}
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	if err := smtp.SendMail(addr, auth, m.From, []string{m.To}, body); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// Compose renders m as a multipart/alternative MIME message.
func Compose(m Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&buf, "%s: %s\r\n", k, sanitizeHeader(v))
		}
	}
	hdr("From", m.From)
	hdr("To", m.To)
	hdr("Reply-To", m.ReplyTo)
	hdr("Subject", mime.QEncoding.Encode("utf-8", sanitizeHeader(m.Subject)))
	hdr("Date", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	for _, part := range []struct{ ctype, body string }{
		{"text/plain; charset=UTF-8", m.Text},
		{"text/html; charset=UTF-8", m.HTML},
	} {
		if part.body == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.ctype},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qw := quotedprintable.NewWriter(w)
		if _, err := qw.Write([]byte(part.body)); err != nil {
			return nil, err
		}
		if err := qw.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// header values must not smuggle extra headers
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// LogSender records messages in the application log instead of sending
// them. Used when no SMTP relay is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m Message) error {
	applog.Info(nil, "mail.logged", map[string]any{
		"to":       m.To,
		"reply_to": m.ReplyTo,
		"subject":  m.Subject,
		"bytes":    len(m.Text) + len(m.HTML),
	})
	return nil
}
