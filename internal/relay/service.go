package relay

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/vegthaliclub/catering-backend/pkg/config"
	"github.com/vegthaliclub/catering-backend/pkg/db/models"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
	pkgerrors "github.com/vegthaliclub/catering-backend/pkg/errors"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/metrics"
	"github.com/vegthaliclub/catering-backend/pkg/types"
)

// FailureMessage is the only failure text shown to customers.
const FailureMessage = "Failed to send. Please try again."

// Recorder stores the request log. Implemented by requests.Repository.
type Recorder interface {
	Create(ctx context.Context, req *models.CateringRequest) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CateringRequestStatus, transport, errMsg string) error
}

// Service turns catering and contact requests into emails.
type Service struct {
	mailer   Mailer
	recorder Recorder
	smtp     config.SMTPConfig
	logg     *logger.Logger
	metrics  *metrics.CateringMetrics
}

type ServiceParams struct {
	Mailer   Mailer
	Recorder Recorder
	SMTP     config.SMTPConfig
	Logger   *logger.Logger
	Metrics  *metrics.CateringMetrics
}

func NewService(p ServiceParams) (*Service, error) {
	if p.Mailer == nil {
		return nil, errors.New("mailer is required")
	}
	if p.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		mailer:   p.Mailer,
		recorder: p.Recorder,
		smtp:     p.SMTP,
		logg:     p.Logger,
		metrics:  p.Metrics,
	}, nil
}

// RelayCatering emails a submitted order to the kitchen.
func (s *Service) RelayCatering(ctx context.Context, req types.CateringRequest) error {
	html, err := RenderCatering(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, FailureMessage)
	}
	row := &models.CateringRequest{
		Kind:          models.RequestKindCatering,
		PackageName:   req.Package,
		PricingModel:  req.PricingModel.String(),
		CustomerName:  req.Form.FullName,
		CustomerEmail: req.Form.Email,
		EventDate:     req.Form.Date,
		GrandTotal:    req.GrandTotal,
	}
	msg := s.message(CateringSubject(req), html, req.Form.Email)
	return s.deliver(ctx, row, req, msg)
}

// RelayContact emails a general contact form.
func (s *Service) RelayContact(ctx context.Context, req types.ContactRequest) error {
	html, err := RenderContact(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, FailureMessage)
	}
	row := &models.CateringRequest{
		Kind:          models.RequestKindContact,
		CustomerName:  req.FullName,
		CustomerEmail: req.Email,
		EventDate:     req.DateTime,
	}
	msg := s.message(ContactSubject(req), html, req.Email)
	return s.deliver(ctx, row, req, msg)
}

func (s *Service) message(subject, html, replyTo string) Message {
	return Message{
		FromName: s.smtp.FromName,
		From:     s.smtp.Sender(),
		To:       []string{s.smtp.Recipient()},
		ReplyTo:  replyTo,
		Subject:  subject,
		HTML:     html,
	}
}

func (s *Service) deliver(ctx context.Context, row *models.CateringRequest, payload any, msg Message) error {
	if raw, err := json.Marshal(payload); err == nil {
		row.Payload = string(raw)
	}
	recorded := s.record(ctx, row)
	ctx = s.logg.WithFields(ctx, map[string]any{"relay_kind": row.Kind, "relay_request_id": row.ID.String()})

	transport, took, err := timedSend(ctx, s.mailer, msg)
	if err != nil {
		s.metrics.RelaySend(row.Kind, transport, metrics.ResultError, took)
		if recorded {
			s.updateStatus(ctx, row.ID, enums.CateringRequestStatusFailed, transport, err.Error())
		}
		s.logg.Error(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "relay email failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, FailureMessage)
	}

	s.metrics.RelaySend(row.Kind, transport, metrics.ResultOK, took)
	if recorded {
		s.updateStatus(ctx, row.ID, enums.CateringRequestStatusSent, transport, "")
	}
	s.logg.Info(s.logg.WithField(ctx, "transport", transport), "relay email sent")
	return nil
}

func (s *Service) record(ctx context.Context, row *models.CateringRequest) bool {
	if s.recorder == nil {
		return false
	}
	if err := s.recorder.Create(ctx, row); err != nil {
		s.logg.Error(ctx, "record relay request", err)
		return false
	}
	return true
}

func (s *Service) updateStatus(ctx context.Context, id uuid.UUID, status enums.CateringRequestStatus, transport, errMsg string) {
	if err := s.recorder.UpdateStatus(ctx, id, status, transport, errMsg); err != nil {
		s.logg.Error(ctx, "update relay request status", err)
	}
}
