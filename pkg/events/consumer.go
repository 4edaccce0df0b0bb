package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"roost/pkg/logger"
)

var ErrConsumerClosed = errors.New("event consumer is closed")

// Handler processes one booking event. Returning an error leaves the message
// uncommitted; after maxRetries the message goes to the DLQ and is committed.
type Handler func(ctx context.Context, evt BookingEvent) error

type Consumer struct {
	reader     *kafka.Reader
	dlqWriter  *kafka.Writer
	handler    Handler
	maxRetries int
	log        *logger.Logger
}

func NewConsumer(brokers []string, topic, groupID, dlqTopic string, handler Handler, log *logger.Logger) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" || groupID == "" {
		return nil, errors.New("topic and group id are required")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	c := &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			Topic:       topic,
			GroupID:     groupID,
			MinBytes:    1,
			MaxBytes:    1 << 20,
			Logger:      kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger: kafka.LoggerFunc(log.Error),
		}),
		handler:    handler,
		maxRetries: 3,
		log:        log,
	}

	if dlqTopic != "" {
		c.dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        dlqTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Logger:       kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger:  kafka.LoggerFunc(log.Error),
		}
	}

	return c, nil
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			return err
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("Failed to commit message", "offset", msg.Offset, "error", err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	var evt BookingEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		c.log.Error("Dropping undecodable event", "offset", msg.Offset, "error", err)
		c.sendToDLQ(ctx, msg, err)
		return
	}

	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err = c.handler(ctx, evt); err == nil {
			return
		}
		c.log.Warn("Event handler failed",
			"event_type", evt.Type,
			"booking_id", evt.BookingID,
			"attempt", attempt+1,
			"error", err,
		)
	}

	c.sendToDLQ(ctx, msg, err)
}

func (c *Consumer) sendToDLQ(ctx context.Context, msg kafka.Message, cause error) {
	if c.dlqWriter == nil {
		return
	}
	msg.Headers = append(msg.Headers,
		kafka.Header{Key: HeaderOriginalTopic, Value: []byte(c.reader.Config().Topic)},
		kafka.Header{Key: HeaderDLQError, Value: []byte(cause.Error())},
	)
	if err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: msg.Headers,
	}); err != nil {
		c.log.Error("Failed to write event to DLQ", "offset", msg.Offset, "error", err)
	}
}

func (c *Consumer) Close() error {
	err := c.reader.Close()
	if c.dlqWriter != nil {
		if dlqErr := c.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
