package inquiry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/s2design/site/internal/services/site/backend"
	"go.uber.org/zap"
)

// Sink names accepted by configuration.
const (
	SinkLog     = "log"
	SinkAMQP    = "amqp"
	SinkBackend = "backend"
)

// DefaultQueue is the AMQP queue used when none is configured.
const DefaultQueue = "s2site.inquiries"

// LogSink writes inquiries to the log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a sink that logs each inquiry.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Deliver logs the inquiry.
func (s *LogSink) Deliver(_ context.Context, in backend.Inquiry) error {
	s.logger.Info("contact inquiry",
		zap.String("inquiry_id", in.ID),
		zap.String("name", in.Name),
		zap.String("email", in.Email),
		zap.String("phone", in.Phone),
		zap.String("project_type", in.ProjectType),
		zap.String("language", in.Language),
		zap.Int("message_length", len(in.Message)),
		zap.Time("received_at", in.ReceivedAt),
	)
	return nil
}

// Submitter forwards an inquiry to the content API.
type Submitter interface {
	SubmitInquiry(context.Context, backend.Inquiry) error
}

// BackendSink posts inquiries to the content API.
type BackendSink struct {
	client Submitter
}

// NewBackendSink returns a sink over client.
func NewBackendSink(client Submitter) *BackendSink {
	return &BackendSink{client: client}
}

// Deliver forwards the inquiry.
func (s *BackendSink) Deliver(ctx context.Context, in backend.Inquiry) error {
	if s == nil || s.client == nil {
		return errors.New("backend sink is not configured")
	}
	return s.client.SubmitInquiry(ctx, in)
}

// Publisher is the part of an AMQP channel the sink needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPConfig describes the broker connection.
type AMQPConfig struct {
	URL   string
	Queue string
}

// AMQPSink publishes inquiries as JSON to a durable queue.
type AMQPSink struct {
	mu      sync.Mutex
	pub     Publisher
	queue   string
	closers []func() error
}

// NewAMQPSink publishes through pub to queue.
func NewAMQPSink(pub Publisher, queue string) *AMQPSink {
	if strings.TrimSpace(queue) == "" {
		queue = DefaultQueue
	}
	return &AMQPSink{pub: pub, queue: queue}
}

// DialAMQP connects to the broker and declares the queue.
func DialAMQP(cfg AMQPConfig) (*AMQPSink, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("amqp url is required")
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	sink := NewAMQPSink(ch, cfg.Queue)
	if _, err := ch.QueueDeclare(sink.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", sink.queue, err)
	}
	sink.closers = []func() error{ch.Close, conn.Close}
	return sink, nil
}

// Queue returns the destination queue name.
func (s *AMQPSink) Queue() string { return s.queue }

// Deliver publishes the inquiry.
func (s *AMQPSink) Deliver(ctx context.Context, in backend.Inquiry) error {
	if s == nil || s.pub == nil {
		return errors.New("amqp sink is not configured")
	}
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode inquiry: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pub.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    in.ID,
		Timestamp:    in.ReceivedAt,
		Type:         "contact.inquiry",
		Body:         body,
	})
}

// Close releases the broker connection.
func (s *AMQPSink) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
