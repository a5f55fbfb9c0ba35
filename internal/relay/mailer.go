package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/vegthaliclub/catering-backend/pkg/config"
)

// FallbackPort is the STARTTLS submission port tried when the primary transport cannot connect.
const FallbackPort = 587

// ErrMissingCredentials is returned before any dial when the SMTP username or password is unset.
var ErrMissingCredentials = errors.New("smtp credentials are not configured")

// Transport describes one way of reaching the SMTP server.
type Transport struct {
	Name string
	Host string
	Port int
	// SSL selects implicit TLS; otherwise STARTTLS is negotiated.
	SSL bool
	// RequireTLS rejects servers that do not offer STARTTLS.
	RequireTLS bool
}

func (t Transport) String() string {
	return fmt.Sprintf("%s(%s:%d)", t.Name, t.Host, t.Port)
}

// Message is an outbound email.
type Message struct {
	FromName string
	From     string
	To       []string
	ReplyTo  string
	Subject  string
	HTML     string
	Text     string
}

// Mailer delivers messages and reports which transport carried them.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type smtpClient interface {
	DialWithContext(ctx context.Context) error
	Send(msgs ...*mail.Msg) error
	Close() error
}

// SMTPMailer sends through the configured server, retrying the connection
// once on port 587 with mandatory STARTTLS.
type SMTPMailer struct {
	cfg       config.SMTPConfig
	newClient func(Transport) (smtpClient, error)
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	m.newClient = m.goMailClient
	return m
}

// Transports lists the primary transport and, unless it already uses 587, the fallback.
func (m *SMTPMailer) Transports() []Transport {
	primary := Transport{
		Name:       "primary",
		Host:       m.cfg.Host,
		Port:       m.cfg.Port,
		SSL:        m.cfg.Secure,
		RequireTLS: !m.cfg.Secure,
	}
	if primary.Port == 0 {
		primary.Port = 465
	}
	out := []Transport{primary}
	if primary.Port != FallbackPort {
		out = append(out, Transport{
			Name:       "fallback",
			Host:       m.cfg.Host,
			Port:       FallbackPort,
			RequireTLS: true,
		})
	}
	return out
}

func (m *SMTPMailer) goMailClient(t Transport) (smtpClient, error) {
	opts := []mail.Option{
		mail.WithPort(t.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Password),
	}
	if m.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.cfg.Timeout))
	}
	switch {
	case t.SSL:
		opts = append(opts, mail.WithSSL())
	case t.RequireTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(t.Host, opts...)
}

// Send delivers msg. Only connection and authentication failures move on to
// the fallback transport; a failure after the server accepted the session is returned as is.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	if !m.cfg.HasCredentials() {
		return "", ErrMissingCredentials
	}
	built, err := buildMsg(msg)
	if err != nil {
		return "", err
	}

	var dialErrs []error
	for _, t := range m.Transports() {
		client, err := m.dial(ctx, t)
		if err != nil {
			dialErrs = append(dialErrs, fmt.Errorf("%s: %w", t, err))
			continue
		}
		sendErr := client.Send(built)
		_ = client.Close()
		if sendErr != nil {
			return t.Name, fmt.Errorf("send via %s: %w", t, sendErr)
		}
		return t.Name, nil
	}
	return "", errors.Join(dialErrs...)
}

// SendVia delivers msg over exactly one transport.
func (m *SMTPMailer) SendVia(ctx context.Context, t Transport, msg Message) error {
	if !m.cfg.HasCredentials() {
		return ErrMissingCredentials
	}
	built, err := buildMsg(msg)
	if err != nil {
		return err
	}
	client, err := m.dial(ctx, t)
	if err != nil {
		return fmt.Errorf("%s: %w", t, err)
	}
	defer client.Close()
	return client.Send(built)
}

// Verify connects and authenticates over t without sending anything.
func (m *SMTPMailer) Verify(ctx context.Context, t Transport) error {
	if !m.cfg.HasCredentials() {
		return ErrMissingCredentials
	}
	client, err := m.dial(ctx, t)
	if err != nil {
		return fmt.Errorf("%s: %w", t, err)
	}
	return client.Close()
}

func (m *SMTPMailer) dial(ctx context.Context, t Transport) (smtpClient, error) {
	client, err := m.newClient(t)
	if err != nil {
		return nil, err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func buildMsg(msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("message has no recipients")
	}
	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetDate()
	switch {
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
		if msg.Text != "" {
			m.AddAlternativeString(mail.TypeTextPlain, msg.Text)
		}
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}
	return m, nil
}

// timedSend wraps a Mailer call with its wall-clock duration.
func timedSend(ctx context.Context, m Mailer, msg Message) (string, time.Duration, error) {
	started := time.Now()
	transport, err := m.Send(ctx, msg)
	return transport, time.Since(started), err
}
