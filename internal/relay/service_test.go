package relay

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/vegthaliclub/catering-backend/pkg/db/models"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
	pkgerrors "github.com/vegthaliclub/catering-backend/pkg/errors"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/metrics"
	"github.com/vegthaliclub/catering-backend/pkg/types"
)

type stubMailer struct {
	msgs      []Message
	transport string
	err       error
}

func (s *stubMailer) Send(_ context.Context, msg Message) (string, error) {
	s.msgs = append(s.msgs, msg)
	return s.transport, s.err
}

type memoryRecorder struct {
	rows      map[uuid.UUID]*models.CateringRequest
	createErr error
}

func newMemoryRecorder() *memoryRecorder {
	return &memoryRecorder{rows: map[uuid.UUID]*models.CateringRequest{}}
}

func (m *memoryRecorder) Create(_ context.Context, req *models.CateringRequest) error {
	if m.createErr != nil {
		return m.createErr
	}
	req.ID = uuid.New()
	req.Status = enums.CateringRequestStatusPending
	m.rows[req.ID] = req
	return nil
}

func (m *memoryRecorder) UpdateStatus(_ context.Context, id uuid.UUID, status enums.CateringRequestStatus, transport, errMsg string) error {
	row := m.rows[id]
	row.Status = status
	row.Transport = transport
	row.Error = errMsg
	return nil
}

func (m *memoryRecorder) only(t *testing.T) *models.CateringRequest {
	t.Helper()
	require.Len(t, m.rows, 1)
	for _, row := range m.rows {
		return row
	}
	return nil
}

func newTestService(t *testing.T, mailer Mailer, rec Recorder) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Mailer:   mailer,
		Recorder: rec,
		SMTP:     testSMTP(),
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Metrics:  metrics.NewCateringMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)
	return svc
}

func TestRelayCateringSendsAndRecords(t *testing.T) {
	mailer := &stubMailer{transport: "primary"}
	rec := newMemoryRecorder()
	svc := newTestService(t, mailer, rec)

	require.NoError(t, svc.RelayCatering(context.Background(), perPersonRequest()))

	require.Len(t, mailer.msgs, 1)
	msg := mailer.msgs[0]
	require.Equal(t, []string{"orders@example.com"}, msg.To)
	require.Equal(t, "kitchen@example.com", msg.From)
	require.Equal(t, "asha@example.com", msg.ReplyTo)
	require.Contains(t, msg.Subject, "Vegetarian")

	row := rec.only(t)
	require.Equal(t, enums.CateringRequestStatusSent, row.Status)
	require.Equal(t, "primary", row.Transport)
	require.Equal(t, models.RequestKindCatering, row.Kind)
	require.Contains(t, row.Payload, `"package":"Vegetarian"`)
}

func TestRelayCateringFailureIsGeneric(t *testing.T) {
	mailer := &stubMailer{err: ErrMissingCredentials}
	rec := newMemoryRecorder()
	svc := newTestService(t, mailer, rec)

	err := svc.RelayCatering(context.Background(), perPersonRequest())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
	require.Equal(t, FailureMessage, typed.Message())
	require.ErrorIs(t, err, ErrMissingCredentials)

	row := rec.only(t)
	require.Equal(t, enums.CateringRequestStatusFailed, row.Status)
	require.Contains(t, row.Error, "credentials")
}

func TestRecordingFailureDoesNotBlockRelay(t *testing.T) {
	mailer := &stubMailer{transport: "fallback"}
	rec := newMemoryRecorder()
	rec.createErr = errors.New("database is locked")
	svc := newTestService(t, mailer, rec)

	require.NoError(t, svc.RelayContact(context.Background(), types.ContactRequest{
		FullName: "Mina", Email: "mina@example.com", Phone: "555", DateTime: "now", People: "20", Instructions: "veg only",
	}))
	require.Len(t, mailer.msgs, 1)
	require.Equal(t, "New Contact Request — Mina", mailer.msgs[0].Subject)
}

func TestNewServiceRequiresMailer(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: logger.New(logger.Options{Output: io.Discard})})
	require.Error(t, err)
}
