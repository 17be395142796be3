package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"time"
)

// SMTPTransport delivers messages to an SMTP relay.
type SMTPTransport struct {
	addr        string
	auth        smtp.Auth
	insecureTLS bool
	timeout     time.Duration
}

// SMTPOption configures an SMTPTransport.
type SMTPOption func(*SMTPTransport)

// WithAuth authenticates with PLAIN when the server offers AUTH.
func WithAuth(username, password string) SMTPOption {
	return func(t *SMTPTransport) {
		if username == "" {
			return
		}
		host, _, _ := net.SplitHostPort(t.addr)
		t.auth = smtp.PlainAuth("", username, password, host)
	}
}

// WithInsecureTLS skips certificate verification on STARTTLS.
func WithInsecureTLS(insecure bool) SMTPOption {
	return func(t *SMTPTransport) {
		t.insecureTLS = insecure
	}
}

// WithDialTimeout bounds connection setup.
func WithDialTimeout(d time.Duration) SMTPOption {
	return func(t *SMTPTransport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// NewSMTP constructs a transport for the relay at addr (host:port).
func NewSMTP(addr string, opts ...SMTPOption) *SMTPTransport {
	t := &SMTPTransport{addr: addr, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send dials the relay and delivers msg. STARTTLS is used when offered.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return fmt.Errorf("smtp: invalid sender %q: %w", msg.From, err)
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("smtp: invalid recipient %q: %w", msg.To, err)
	}
	body, err := encode(msg, from, to)
	if err != nil {
		return err
	}

	dialer := &net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", t.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	host, _, _ := net.SplitHostPort(t.addr)
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp: handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host, InsecureSkipVerify: t.insecureTLS}); err != nil {
			return fmt.Errorf("smtp: starttls: %w", err)
		}
	}
	if t.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(t.auth); err != nil {
				return fmt.Errorf("smtp: auth: %w", err)
			}
		}
	}
	if err := c.Mail(from.Address); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}
	if err := c.Rcpt(to.Address); err != nil {
		return fmt.Errorf("smtp: rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp: data: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: message rejected: %w", err)
	}
	return c.Quit()
}

func encode(msg Message, from, to *mail.Address) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, fmt.Errorf("smtp: encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("smtp: encode body: %w", err)
	}
	return buf.Bytes(), nil
}
