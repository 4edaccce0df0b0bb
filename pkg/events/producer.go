package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"roost/pkg/logger"
)

var ErrProducerClosed = errors.New("event producer is closed")

// Publisher is the narrow interface services depend on; a nil Publisher in a
// service means events are disabled.
type Publisher interface {
	Publish(ctx context.Context, evt BookingEvent) error
	Close() error
}

type Producer struct {
	writer    *kafka.Writer
	dlqWriter *kafka.Writer
	topic     string
	source    string
	log       *logger.Logger
	mu        sync.RWMutex
	closed    bool
}

func NewProducer(brokers []string, topic, dlqTopic, source string, log *logger.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("topic cannot be empty")
	}

	p := &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{}, // key = booking id, keeps per-booking order
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			MaxAttempts:  3,
			BatchTimeout: 50 * time.Millisecond,
			Logger:       kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger:  kafka.LoggerFunc(log.Error),
		},
		topic:  topic,
		source: source,
		log:    log,
	}

	if dlqTopic != "" {
		p.dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        dlqTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			MaxAttempts:  3,
			Logger:       kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger:  kafka.LoggerFunc(log.Error),
		}
	}

	return p, nil
}

func (p *Producer) Publish(ctx context.Context, evt BookingEvent) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrProducerClosed
	}

	if evt.BookingID == "" {
		return errors.New("event booking id cannot be empty")
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(evt.BookingID),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(evt.Type)},
			{Key: HeaderSource, Value: []byte(p.source)},
			{Key: HeaderTimestamp, Value: []byte(evt.OccurredAt.Format(time.RFC3339))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		if p.dlqWriter != nil {
			if dlqErr := p.sendToDLQ(ctx, msg, err); dlqErr != nil {
				p.log.Error("Failed to route event to DLQ", "booking_id", evt.BookingID, "error", dlqErr)
			}
		}
		return err
	}

	return nil
}

func (p *Producer) sendToDLQ(ctx context.Context, msg kafka.Message, cause error) error {
	msg.Headers = append(msg.Headers,
		kafka.Header{Key: HeaderOriginalTopic, Value: []byte(p.topic)},
		kafka.Header{Key: HeaderDLQError, Value: []byte(cause.Error())},
	)
	msg.Time = time.Now()
	return p.dlqWriter.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.writer.Close()
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
