// The notifier consumes the booking event stream and delivers user-facing
// notifications. Delivery is currently structured log output; swapping in an
// email or push provider only touches the notify function.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"roost/pkg/config"
	"roost/pkg/events"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	if !cfg.EventsEnabled() {
		cfg.Log.Fatal("Notifier requires Kafka brokers; set KAFKA_BROKERS")
	}

	consumer, err := events.NewConsumer(
		cfg.KafkaBrokers,
		cfg.KafkaBookingTopic,
		cfg.KafkaConsumerGroupID,
		cfg.KafkaBookingDLQTopic,
		notify(cfg),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event consumer", "error", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier started", "topic", cfg.KafkaBookingTopic, "group", cfg.KafkaConsumerGroupID)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Consumer stopped with error", "error", err)
	}

	cfg.Log.Info("Notifier stopped")
}

func notify(cfg *config.Config) events.Handler {
	return func(ctx context.Context, evt events.BookingEvent) error {
		switch evt.Type {
		case events.TypeBookingCreated:
			cfg.Log.Info("Notify customer: booking received",
				"booking_id", evt.BookingID, "customer_id", evt.CustomerID, "host_id", evt.HostID)
		case events.TypePaymentPaid:
			cfg.Log.Info("Notify customer and host: payment confirmed",
				"booking_id", evt.BookingID, "customer_id", evt.CustomerID, "host_id", evt.HostID,
				"total_price", evt.TotalPrice)
		case events.TypePaymentFailed:
			cfg.Log.Info("Notify customer: payment failed, retry available",
				"booking_id", evt.BookingID, "customer_id", evt.CustomerID)
		case events.TypeBookingRefunded:
			cfg.Log.Info("Notify customer: booking cancelled, refund issued",
				"booking_id", evt.BookingID, "customer_id", evt.CustomerID)
		case events.TypeBookingCancelled:
			cfg.Log.Info("Notify host: booking cancelled",
				"booking_id", evt.BookingID, "host_id", evt.HostID)
		default:
			cfg.Log.Warn("Unknown event type", "type", evt.Type, "booking_id", evt.BookingID)
		}
		return nil
	}
}
