// Package mailer delivers outbound notification mail over SMTP. When SMTP is
// disabled (development), codes are logged instead of sent.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/config"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

type smtpMailer struct {
	cfg *config.Config
}

func New(cfg *config.Config) domain.Mailer {
	if cfg.SMTPDisable {
		return &logMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.cfg.SMTPHost == "" || m.cfg.SMTPUser == "" || m.cfg.SMTPPassword == "" {
		return errors.New("smtp not configured")
	}

	fromAddr := m.cfg.SenderEmail
	if fromAddr == "" {
		fromAddr = m.cfg.SMTPUser
	}
	fromHeader := fromAddr
	if m.cfg.SenderName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", m.cfg.SenderName, fromAddr)
	}

	msg := buildMessage(fromHeader, to, subject, body)
	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	// Port 465 expects an implicit TLS session; everything else negotiates
	// STARTTLS when the server offers it.
	if m.cfg.SMTPPort == 465 {
		return m.sendTLS(addr, auth, fromAddr, to, msg)
	}

	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: m.cfg.SMTPHost}
		if err := c.StartTLS(tlsConfig); err != nil {
			return err
		}
	}
	if err := c.Auth(auth); err != nil {
		return err
	}
	return submit(c, fromAddr, to, msg)
}

func (m *smtpMailer) sendTLS(addr string, auth smtp.Auth, from, to, msg string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.SMTPHost})
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Auth(auth); err != nil {
		return err
	}
	return submit(c, from, to, msg)
}

func submit(c *smtp.Client, from, to, msg string) error {
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(fromHeader, to, subject, body string) string {
	var b strings.Builder
	b.WriteString("From: " + fromHeader + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return b.String()
}

// logMailer stands in for SMTP during development so flows stay testable
// without a mail server.
type logMailer struct{}

func (m *logMailer) Send(ctx context.Context, to, subject, body string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("smtp disabled; mail logged instead of sent")
	log.Debug().Str("body", body).Msg("mail body")
	return nil
}
