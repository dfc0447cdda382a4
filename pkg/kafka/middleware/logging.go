package kafkamiddleware

import (
	"context"
	"time"

	"buffet/pkg/kafka"
	"buffet/pkg/logger"
)

func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.EventID(),
			"event_type", msg.EventType(),
			"correlation_id", msg.CorrelationID(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			log.Error("Failed to publish event", append(attrs, "error", err)...)
		} else {
			log.Debug("Event published", attrs...)
		}
		return err
	}
}

// LoggingConsumerMiddleware also places a message-scoped logger in ctx.
func LoggingConsumerMiddleware(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		msgLog := log.With(
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"event_id", msg.EventID(),
			"event_type", msg.EventType(),
			"correlation_id", msg.CorrelationID(),
		)

		err := next(logger.IntoContext(ctx, msgLog), msg)

		if err != nil {
			msgLog.Error("Failed to process event", "duration_ms", time.Since(start).Milliseconds(), "error", err)
		} else {
			msgLog.Info("Event processed", "duration_ms", time.Since(start).Milliseconds())
		}
		return err
	}
}
