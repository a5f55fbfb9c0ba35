package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/vegthaliclub/catering-backend/pkg/config"
)

type fakeClient struct {
	transport Transport
	dialErr   error
	sendErr   error
	sent      int
	closed    bool
}

func (f *fakeClient) DialWithContext(context.Context) error { return f.dialErr }

func (f *fakeClient) Send(msgs ...*mail.Msg) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent += len(msgs)
	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

type fakeDialer struct {
	byPort map[int]*fakeClient
	dialed []Transport
}

func (d *fakeDialer) client(t Transport) (smtpClient, error) {
	d.dialed = append(d.dialed, t)
	c, ok := d.byPort[t.Port]
	if !ok {
		return nil, errors.New("no route")
	}
	c.transport = t
	return c, nil
}

func testSMTP() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     465,
		Secure:   true,
		User:     "kitchen@example.com",
		Password: "app-password",
		ToEmail:  "orders@example.com",
		FromName: "Veg Thali Club Catering",
	}
}

func testMessage() Message {
	return Message{
		FromName: "Veg Thali Club Catering",
		From:     "kitchen@example.com",
		To:       []string{"orders@example.com"},
		ReplyTo:  "asha@example.com",
		Subject:  "New Catering Request — Vegetarian — Asha",
		HTML:     "<p>hi</p>",
	}
}

func TestSendUsesPrimaryWhenItConnects(t *testing.T) {
	m := NewSMTPMailer(testSMTP())
	primary := &fakeClient{}
	fallback := &fakeClient{}
	d := &fakeDialer{byPort: map[int]*fakeClient{465: primary, 587: fallback}}
	m.newClient = d.client

	transport, err := m.Send(context.Background(), testMessage())
	require.NoError(t, err)
	require.Equal(t, "primary", transport)
	require.Equal(t, 1, primary.sent)
	require.True(t, primary.closed)
	require.Zero(t, fallback.sent)
	require.Len(t, d.dialed, 1)
	require.True(t, d.dialed[0].SSL)
}

func TestSendFallsBackTo587OnDialFailure(t *testing.T) {
	m := NewSMTPMailer(testSMTP())
	primary := &fakeClient{dialErr: errors.New("535 auth rejected")}
	fallback := &fakeClient{}
	d := &fakeDialer{byPort: map[int]*fakeClient{465: primary, 587: fallback}}
	m.newClient = d.client

	transport, err := m.Send(context.Background(), testMessage())
	require.NoError(t, err)
	require.Equal(t, "fallback", transport)
	require.Equal(t, 1, fallback.sent)
	require.False(t, fallback.transport.SSL)
	require.True(t, fallback.transport.RequireTLS)
}

func TestSendDoesNotRetryAfterSessionAccepted(t *testing.T) {
	m := NewSMTPMailer(testSMTP())
	primary := &fakeClient{sendErr: errors.New("552 message too large")}
	fallback := &fakeClient{}
	m.newClient = (&fakeDialer{byPort: map[int]*fakeClient{465: primary, 587: fallback}}).client

	_, err := m.Send(context.Background(), testMessage())
	require.Error(t, err)
	require.Zero(t, fallback.sent)
}

func TestSendReportsBothDialFailures(t *testing.T) {
	m := NewSMTPMailer(testSMTP())
	m.newClient = (&fakeDialer{byPort: map[int]*fakeClient{
		465: {dialErr: errors.New("timeout")},
		587: {dialErr: errors.New("starttls unsupported")},
	}}).client

	_, err := m.Send(context.Background(), testMessage())
	require.ErrorContains(t, err, "timeout")
	require.ErrorContains(t, err, "starttls unsupported")
}

func TestNoFallbackWhenAlreadyOn587(t *testing.T) {
	cfg := testSMTP()
	cfg.Port = 587
	cfg.Secure = false
	m := NewSMTPMailer(cfg)

	transports := m.Transports()
	require.Len(t, transports, 1)
	require.True(t, transports[0].RequireTLS)

	d := &fakeDialer{byPort: map[int]*fakeClient{587: {dialErr: errors.New("refused")}}}
	m.newClient = d.client
	_, err := m.Send(context.Background(), testMessage())
	require.Error(t, err)
	require.Len(t, d.dialed, 1)
}

func TestMissingCredentialsFailFast(t *testing.T) {
	cfg := testSMTP()
	cfg.Password = ""
	m := NewSMTPMailer(cfg)
	d := &fakeDialer{byPort: map[int]*fakeClient{}}
	m.newClient = d.client

	_, err := m.Send(context.Background(), testMessage())
	require.ErrorIs(t, err, ErrMissingCredentials)
	require.ErrorIs(t, m.Verify(context.Background(), m.Transports()[0]), ErrMissingCredentials)
	require.Empty(t, d.dialed)
}

func TestBuildMsgRejectsBadAddresses(t *testing.T) {
	msg := testMessage()
	msg.To = nil
	_, err := buildMsg(msg)
	require.Error(t, err)

	msg = testMessage()
	msg.ReplyTo = "not an address"
	_, err = buildMsg(msg)
	require.Error(t, err)
}
