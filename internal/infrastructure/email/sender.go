package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"signalradar/internal/config"
	"signalradar/internal/domain"
	"signalradar/internal/ports"
)

// Sender delivers finished reports over SMTP as dark-mode HTML mail.
type Sender struct {
	cfg    config.EmailConfig
	logger *slog.Logger
}

var _ ports.Notifier = (*Sender)(nil)

func NewSender(cfg config.EmailConfig, logger *slog.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger.With("component", "email"),
	}
}

// Subject builds the outbound subject line for a report.
func Subject(report domain.Report) string {
	day := report.GeneratedAt.Format("2006-01-02")
	if report.Kind == domain.RunWeekly {
		return fmt.Sprintf("[Signal Radar] Weekly Digest — Week of %s", day)
	}
	return fmt.Sprintf("[Signal Radar] Daily Intel — %s", day)
}

// Deliver renders and sends the report to every configured recipient.
func (s *Sender) Deliver(ctx context.Context, report domain.Report) error {
	if len(s.cfg.To) == 0 {
		return fmt.Errorf("no email recipients configured")
	}

	subject := Subject(report)
	html := Render(report)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(s.cfg.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	if err := s.send(ctx, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to deliver report: %w", err)
	}
	s.logger.Info("report delivered", "subject", subject, "recipients", len(s.cfg.To))
	return nil
}

func (s *Sender) send(ctx context.Context, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if s.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range s.cfg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}
	return client.Quit()
}
