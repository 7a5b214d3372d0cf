package mail

import (
	"context"
	"fmt"
	"text/template"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/comedor/admin-api/internal/core/ports"
)

const (
	defaultTimeout = 15 * time.Second
	defaultSubject = "Your account credentials"
)

// Config captures the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	From     string // sender address
	Username string // SMTP account; empty disables auth
	Password string
	Timeout  time.Duration
}

var credentialTemplate = template.Must(template.New("credentials").Parse(
	`Hello{{if .Name}} {{.Name}}{{end}},

An account has been created for you.

Username: {{.Username}}
Password: {{.Password}}

Please change this password after your first login.
`))

// SMTPMailer delivers credential emails over SMTP.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer checks the minimal settings needed to deliver mail.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp: sender address is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send dials the server and delivers a single credential email.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.CredentialEmail) error {
	message, err := m.buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *SMTPMailer) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTimeout(m.cfg.Timeout),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if m.cfg.Port == 465 {
		opts = append(opts, gomail.WithSSL())
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

func (m *SMTPMailer) buildMessage(msg ports.CredentialEmail) (*gomail.Msg, error) {
	message := gomail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	message.Subject(defaultSubject)
	if err := message.SetBodyTextTemplate(credentialTemplate, msg); err != nil {
		return nil, fmt.Errorf("smtp body: %w", err)
	}
	return message, nil
}
