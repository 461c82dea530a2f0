package repository

import (
	"context"
	"time"

	"MortgageCalc/internal/domain/models"
)

// RateSource supplies the ordered (points, rate) pairs of one product.
type RateSource interface {
	RatePoints(ctx context.Context, productKey string) ([]models.RatePoint, error)
	Name() string
}

// QuoteCache stores encoded quote responses with a TTL.
type QuoteCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// QuotePublisher emits quote events to downstream consumers.
type QuotePublisher interface {
	PublishQuote(ctx context.Context, ev *models.QuoteEvent) error
	Close() error
}

type Metrics interface {
	RecordQuote(product string)
	RecordRuleApplied(rule string)
	RecordRejected(reason string)
	RecordCache(result string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
