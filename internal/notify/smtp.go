package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTP sends plain-text mail through a single SMTP relay. One connection
// per message: the daemon sends mail rarely enough that holding a session
// open buys nothing and breaks on relay idle timeouts.
type SMTP struct {
	Host       string
	Port       int
	UseTLS     bool // STARTTLS after EHLO
	Username   string
	Password   string
	Sender     string
	Recipients []string

	DialTimeout time.Duration
}

func NewSMTP(host string, port int, useTLS bool, username, password, sender string, recipients []string) *SMTP {
	if host == "" {
		return nil
	}
	return &SMTP{
		Host:        host,
		Port:        port,
		UseTLS:      useTLS,
		Username:    username,
		Password:    password,
		Sender:      sender,
		Recipients:  recipients,
		DialTimeout: 10 * time.Second,
	}
}

func (s *SMTP) Send(ctx context.Context, subject, body string) error {
	if s == nil || s.Host == "" {
		return errors.New("smtp disabled")
	}

	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	d := net.Dialer{Timeout: s.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if s.UseTLS {
		if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if s.Username != "" {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(s.Sender); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range s.Recipients {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(s.message(subject, body)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return c.Quit()
}

// message assembles the RFC 5322 envelope around the body.
func (s *SMTP) message(subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(s.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
