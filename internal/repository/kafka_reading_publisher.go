package repository

import (
	"context"
	"fmt"

	domrepo "SilverPulse/internal/domain/repository"
	pkgkafka "SilverPulse/pkg/kafka"
	applogger "SilverPulse/pkg/logger"
)

// KafkaReadingPublisher implements ReadingSink over a Kafka topic. Events
// are keyed by metric so each metric's stream stays ordered per partition.
type KafkaReadingPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaReadingPublisher(producer *pkgkafka.Producer, topic string) *KafkaReadingPublisher {
	return &KafkaReadingPublisher{producer: producer, topic: topic}
}

// SetLogger injects a structured logger.
func (p *KafkaReadingPublisher) SetLogger(l *applogger.Logger) { p.l = l }

func (p *KafkaReadingPublisher) Record(ctx context.Context, ev domrepo.ReadingEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.Metric), ev); err != nil {
		if p.l != nil {
			p.l.Error("kafka publish reading error",
				applogger.String("metric", ev.Metric),
				applogger.String("topic", p.topic),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish reading: %w", err)
	}
	return nil
}

// MultiSink fans one event out to several sinks; each sink failure is
// independent, the first error is returned after all sinks ran.
type MultiSink []domrepo.ReadingSink

func (m MultiSink) Record(ctx context.Context, ev domrepo.ReadingEvent) error {
	var first error
	for _, s := range m {
		if err := s.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
