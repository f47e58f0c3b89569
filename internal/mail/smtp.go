package mail

import (
	"context" // Request scoped cancellation
	"fmt"     // Error wrapping
	"time"    // Dial timeout

	"github.com/sirupsen/logrus"         // Logging
	gomail "github.com/wneessen/go-mail" // SMTP client
)

// SMTPConfig holds SMTP connection parameters
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // Optional, some relays accept unauthenticated mail
	Password string
	From     string // Sender address
}

// SMTPSender implements Sender over SMTP
type SMTPSender struct {
	cfg SMTPConfig
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates an SMTP sender
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send builds the MIME message and delivers it in a single dial
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := s.buildMessage(m)
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		logrus.WithFields(logrus.Fields{
			"to":    m.To,
			"host":  s.cfg.Host,
			"error": err,
		}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"to":      m.To,
		"subject": m.Subject,
	}).Info("Email sent")
	return nil
}

func (s *SMTPSender) buildMessage(m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(m.Subject)
	if m.TextBody != "" {
		msg.SetBodyString(gomail.TypeTextPlain, m.TextBody)
		msg.AddAlternativeString(gomail.TypeTextHTML, m.HTMLBody)
	} else {
		msg.SetBodyString(gomail.TypeTextHTML, m.HTMLBody)
	}
	return msg, nil
}

// clientOptions picks the TLS mode from the port
func (s *SMTPSender) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTimeout(30 * time.Second),
	}
	switch s.cfg.Port {
	case 465:
		opts = append(opts, gomail.WithSSL()) // Implicit TLS
	case 587:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory)) // STARTTLS
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic)) // Port 25, local catchers
	}
	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
			gomail.WithSMTPAuth(gomail.SMTPAuthAutoDiscover),
		)
	}
	return opts
}
