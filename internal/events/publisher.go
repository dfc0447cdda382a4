package events

import (
	"context"

	"buffet/pkg/kafka"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
)

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

type noopPublisher struct {
	log *logger.Logger
}

// NewNoopPublisher drops events. Used when KAFKA_ENABLED is false.
func NewNoopPublisher(log *logger.Logger) Publisher {
	return &noopPublisher{log: log}
}

func (p *noopPublisher) Publish(ctx context.Context, event BookingEvent) error {
	p.log.Debug("Booking event not published, kafka disabled", "type", event.Type, "booking_id", event.BookingID)
	return nil
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) Publisher {
	return &kafkaPublisher{producer: producer, source: source}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}
