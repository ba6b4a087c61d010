package utils

import (
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/cppla/wemake/config"
)

// ErrMailNotConfigured is returned when no SMTP host or sender is set.
var ErrMailNotConfigured = errors.New("smtp not configured")

// Mailer sends plain text mail.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail with the SMTP settings it was built from.
type SMTPMailer struct {
	cfg config.AppConfig
}

// NewSMTPMailer returns a mailer bound to cfg.
func NewSMTPMailer(cfg config.AppConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one message, upgrading with STARTTLS when SMTPTLS is set and the server offers it.
func (m *SMTPMailer) Send(to, subject, body string) error {
	cfg := m.cfg
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return ErrMailNotConfigured
	}
	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	msg := buildMessage(cfg, to, subject, body)

	if !cfg.SMTPTLS {
		return smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{to}, msg)
	}

	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))
	c, err := smtp.NewClient(conn, cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: cfg.SMTPHost}); err != nil {
			return err
		}
	}
	if cfg.SMTPUsername != "" {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(cfg.SMTPFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(cfg config.AppConfig, to, subject, body string) []byte {
	fromName := cfg.SMTPFromName
	if fromName == "" {
		fromName = "wemake"
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", mime.BEncoding.Encode("UTF-8", fromName), cfg.SMTPFrom)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)
	return []byte(msg.String())
}
