package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adeyemi/campuscore/internal/pkg/apperrors"
	"github.com/adeyemi/campuscore/internal/pkg/mailer"
)

// SendNotificationInput describes one bulk notification send.
type SendNotificationInput struct {
	Recipients RecipientConfig
	Subject    string
	Body       string
}

// NotificationBatch reports the outcome of one bulk send.
type NotificationBatch struct {
	BatchID   string             `json:"batch_id"`
	SentAt    time.Time          `json:"sent_at"`
	Subject   string             `json:"subject"`
	Metadata  *RecipientMetadata `json:"metadata"`
	Attempted int                `json:"attempted"`
	Delivered int                `json:"delivered"`
	Failed    []string           `json:"failed,omitempty"`
}

// NotificationService resolves a recipient configuration and hands the
// resulting address list to the mailer.
type NotificationService struct {
	resolver *RecipientService
	mailer   mailer.Mailer
	logger   zerolog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(resolver *RecipientService, m mailer.Mailer, logger zerolog.Logger) *NotificationService {
	return &NotificationService{resolver: resolver, mailer: m, logger: logger}
}

// Send resolves the recipients and delivers the message to each of them. A
// selection that matches nobody is not an error: the batch reports zero
// attempts and nothing is handed to the mailer.
func (s *NotificationService) Send(ctx context.Context, input SendNotificationInput) (*NotificationBatch, error) {
	if input.Subject == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "subject is required")
	}
	if input.Body == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "body is required")
	}

	recipients, metadata, err := s.resolver.BuildRecipientList(ctx, input.Recipients)
	if err != nil {
		return nil, err
	}

	batch := &NotificationBatch{
		BatchID:  uuid.New().String(),
		SentAt:   time.Now().UTC(),
		Subject:  input.Subject,
		Metadata: metadata,
	}

	if len(recipients) == 0 {
		s.logger.Warn().
			Str("batchId", batch.BatchID).
			Str("type", string(input.Recipients.Type)).
			Msg("Notification send matched no recipients")
		return batch, nil
	}

	outcome, err := s.mailer.SendBulk(ctx, recipients, input.Subject, input.Body)
	if outcome != nil {
		batch.Attempted = outcome.Attempted
		batch.Delivered = outcome.Delivered
		batch.Failed = outcome.Failed
	}
	if err != nil {
		return batch, err
	}

	s.logger.Info().
		Str("batchId", batch.BatchID).
		Int("attempted", batch.Attempted).
		Int("delivered", batch.Delivered).
		Msg("Notification batch sent")

	return batch, nil
}
