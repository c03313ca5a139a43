// Package inquiry accepts contact form submissions and hands them to a sink.
package inquiry

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"go.uber.org/zap"
)

const maxMessageLength = 4000

// Catalog keys for validation and delivery failures.
const (
	KeyInvalid         = "public.contact.error_invalid"
	KeyNameRequired    = "public.contact.error_name_required"
	KeyMessageRequired = "public.contact.error_message_required"
	KeyReachRequired   = "public.contact.error_reach_required"
	KeyEmailInvalid    = "public.contact.error_email_invalid"
	KeyMessageTooLong  = "public.contact.error_message_too_long"
	KeyDeliveryFailed  = "public.contact.error_delivery"
)

// Input is a raw contact form submission.
type Input struct {
	Name        string
	Email       string
	Phone       string
	ProjectType string
	Message     string
	Language    string
}

// FieldErrors maps a form field to the catalog key describing its problem.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Sink delivers accepted inquiries.
type Sink interface {
	Deliver(context.Context, backend.Inquiry) error
}

// Service validates and dispatches inquiries.
type Service struct {
	sink   Sink
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService builds a service. A nil sink logs inquiries.
func NewService(sink Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = NewLogSink(logger)
	}
	return &Service{sink: sink, logger: logger, now: time.Now, newID: uuid.NewString}
}

// Submit validates in, stamps it and delivers it. Validation failures wrap a
// FieldErrors.
func (s *Service) Submit(ctx context.Context, in Input) (backend.Inquiry, error) {
	in, fields := Validate(in)
	if len(fields) > 0 {
		return backend.Inquiry{}, apperrors.Error{Kind: apperrors.KindInvalidInput, Key: KeyInvalid, Message: fields.Error(), Err: fields}
	}
	inquiry := backend.Inquiry{
		ID:          s.newID(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		ProjectType: in.ProjectType,
		Message:     in.Message,
		Language:    in.Language,
		ReceivedAt:  s.now().UTC(),
	}
	if err := s.sink.Deliver(ctx, inquiry); err != nil {
		s.logger.Error("inquiry delivery failed", zap.String("inquiry_id", inquiry.ID), zap.Error(err))
		return backend.Inquiry{}, apperrors.Wrap(apperrors.KindUnavailable, KeyDeliveryFailed, err)
	}
	s.logger.Info("inquiry accepted", zap.String("inquiry_id", inquiry.ID))
	return inquiry, nil
}

// Validate trims in and reports field problems. Name and message are
// required, and at least one of email or phone.
func Validate(in Input) (Input, FieldErrors) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ProjectType = strings.TrimSpace(in.ProjectType)
	in.Message = strings.TrimSpace(in.Message)
	in.Language = strings.TrimSpace(in.Language)

	fields := FieldErrors{}
	if in.Name == "" {
		fields["name"] = KeyNameRequired
	}
	switch {
	case in.Message == "":
		fields["message"] = KeyMessageRequired
	case utf8.RuneCountInString(in.Message) > maxMessageLength:
		fields["message"] = KeyMessageTooLong
	}
	if in.Email == "" && in.Phone == "" {
		fields["email"] = KeyReachRequired
	} else if in.Email != "" && !validEmail(in.Email) {
		fields["email"] = KeyEmailInvalid
	}
	return in, fields
}

func validEmail(raw string) bool {
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return false
	}
	at := strings.LastIndex(raw, "@")
	return at > 0 && strings.Contains(raw[at+1:], ".")
}
