package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// Subject is the subject line of every guide email.
const Subject = "🌸 Seu Guia Personalizado Para Consulta"

// Guide is the rendered document headed for a user's inbox.
type Guide struct {
	// Name is how the user introduced themselves.
	Name string
	// Email is the destination address.
	Email string
	// Markdown is the guide body as produced by the generation flow.
	Markdown string
}

// Sender delivers a guide to its user.
type Sender interface {
	SendGuide(ctx context.Context, g Guide) error
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
}

// SMTPSender delivers guides over an authenticated STARTTLS SMTP relay.
// The guide travels as a styled HTML attachment with a short HTML body.
type SMTPSender struct {
	cfg SMTPConfig
	now func() time.Time
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates a sender for the given relay.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("delivery: SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("delivery: sender address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg, now: time.Now}, nil
}

// SendGuide implements Sender.
func (s *SMTPSender) SendGuide(ctx context.Context, g Guide) error {
	if g.Email == "" {
		return fmt.Errorf("delivery: destination email is required")
	}
	if strings.TrimSpace(g.Markdown) == "" {
		return fmt.Errorf("delivery: guide is empty")
	}

	now := s.now()

	page, err := RenderGuideHTML(g.Markdown, now)
	if err != nil {
		return err
	}

	body, err := renderEmailBody(g.Name)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(g.Email); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(Subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	filename := fmt.Sprintf("guia_consulta_%s.html", now.Format("20060102"))
	if err := msg.AttachReader(filename, strings.NewReader(page)); err != nil {
		return fmt.Errorf("attach guide: %w", err)
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.From),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send guide to %s: %w", g.Email, err)
	}
	return nil
}
