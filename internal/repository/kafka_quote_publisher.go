package repository

import (
	"context"

	"MortgageCalc/internal/domain/models"
	"MortgageCalc/internal/domain/repository"
	pkgkafka "MortgageCalc/pkg/kafka"
)

// KafkaQuotePublisher publishes quote events keyed by applicant state.
type KafkaQuotePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaQuotePublisher creates a Kafka-backed QuotePublisher.
func NewKafkaQuotePublisher(producer *pkgkafka.Producer, topic string) repository.QuotePublisher {
	return &KafkaQuotePublisher{producer: producer, topic: topic}
}

func (p *KafkaQuotePublisher) PublishQuote(ctx context.Context, ev *models.QuoteEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.State), ev)
}

func (p *KafkaQuotePublisher) Close() error {
	return p.producer.Close()
}
