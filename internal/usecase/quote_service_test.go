package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"MortgageCalc/internal/domain/models"
	"MortgageCalc/internal/service/cache"
	"MortgageCalc/internal/service/ratetable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetrics struct {
	mu       sync.Mutex
	quotes   map[string]int
	rules    map[string]int
	cache    map[string]int
	errors   map[string]int
	latency  int
	rejected map[string]int
}

func newRecordedMetrics() *recordedMetrics {
	return &recordedMetrics{
		quotes:   map[string]int{},
		rules:    map[string]int{},
		cache:    map[string]int{},
		errors:   map[string]int{},
		rejected: map[string]int{},
	}
}

func (m *recordedMetrics) RecordQuote(p string)       { m.mu.Lock(); m.quotes[p]++; m.mu.Unlock() }
func (m *recordedMetrics) RecordRuleApplied(r string) { m.mu.Lock(); m.rules[r]++; m.mu.Unlock() }
func (m *recordedMetrics) RecordRejected(r string)    { m.mu.Lock(); m.rejected[r]++; m.mu.Unlock() }
func (m *recordedMetrics) RecordCache(r string)       { m.mu.Lock(); m.cache[r]++; m.mu.Unlock() }
func (m *recordedMetrics) RecordError(k string)       { m.mu.Lock(); m.errors[k]++; m.mu.Unlock() }
func (m *recordedMetrics) RecordLatency(string, float64) {
	m.mu.Lock()
	m.latency++
	m.mu.Unlock()
}

type fakePublisher struct {
	events []*models.QuoteEvent
	err    error
}

func (p *fakePublisher) PublishQuote(_ context.Context, ev *models.QuoteEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func TestQuoteServiceRecordsMetrics(t *testing.T) {
	m := newRecordedMetrics()
	svc := NewQuoteService(NewPricingEngine(testTable()), m)

	p := baseProfile()
	p.State = "NY"
	quotes, err := svc.Quote(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, quotes, 4)

	assert.Equal(t, 1, m.quotes["30-Year Fixed"])
	assert.Equal(t, 4, m.rules[RuleNewYork])
	assert.Equal(t, 1, m.latency)
	assert.Empty(t, m.cache)
}

func TestQuoteServiceCache(t *testing.T) {
	m := newRecordedMetrics()
	c := cache.NewTTLCache(0)
	svc := NewQuoteService(NewPricingEngine(testTable()), m, WithCache(c, time.Minute))

	first, err := svc.Quote(context.Background(), baseProfile())
	require.NoError(t, err)
	second, err := svc.Quote(context.Background(), baseProfile())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, m.cache["miss"])
	assert.Equal(t, 1, m.cache["hit"])
	assert.Equal(t, 1, c.Len())
}

func TestQuoteServiceCacheHitStillCountsAndPublishes(t *testing.T) {
	m := newRecordedMetrics()
	pub := &fakePublisher{}
	svc := NewQuoteService(NewPricingEngine(testTable()), m,
		WithCache(cache.NewTTLCache(0), time.Minute), WithPublisher(pub))

	p := baseProfile()
	p.State = "NY"
	for i := 0; i < 3; i++ {
		_, err := svc.Quote(context.Background(), p)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, m.cache["hit"])
	assert.Len(t, pub.events, 3)
	assert.Equal(t, 3, m.quotes["30-Year Fixed"])
	assert.Equal(t, 3, m.quotes["7/1 ARM"])
	assert.Equal(t, 12, m.rules[RuleNewYork])
	assert.Equal(t, 3, m.latency)
	assert.Equal(t, pub.events[0].Quotes, pub.events[2].Quotes)
	assert.NotEqual(t, pub.events[0].ID, pub.events[2].ID)
}

func TestQuoteServiceCacheKeyDependsOnProfile(t *testing.T) {
	a := baseProfile()
	b := baseProfile()
	assert.Equal(t, cacheKey("v1", a), cacheKey("v1", b))

	b.Points = 0.5
	assert.NotEqual(t, cacheKey("v1", a), cacheKey("v1", b))
}

func TestQuoteServiceCacheIsScopedToRateTable(t *testing.T) {
	shared := cache.NewTTLCache(0)
	low := ratetable.New("rates", map[string][]models.RatePoint{
		models.ProductFixed30: {{Points: 0, Rate: 6.0}},
		models.ProductFixed15: {{Points: 0, Rate: 5.5}},
		models.ProductARM51:   {{Points: 0, Rate: 5.0}},
		models.ProductARM71:   {{Points: 0, Rate: 5.2}},
	})
	high := ratetable.New("rates", map[string][]models.RatePoint{
		models.ProductFixed30: {{Points: 0, Rate: 8.0}},
		models.ProductFixed15: {{Points: 0, Rate: 7.5}},
		models.ProductARM51:   {{Points: 0, Rate: 7.0}},
		models.ProductARM71:   {{Points: 0, Rate: 7.2}},
	})
	require.NotEqual(t, low.Fingerprint(), high.Fingerprint())

	before := NewQuoteService(NewPricingEngine(low), newRecordedMetrics(), WithCache(shared, time.Minute))
	after := NewQuoteService(NewPricingEngine(high), newRecordedMetrics(), WithCache(shared, time.Minute))

	q1, err := before.Quote(context.Background(), baseProfile())
	require.NoError(t, err)
	q2, err := after.Quote(context.Background(), baseProfile())
	require.NoError(t, err)

	assert.InDelta(t, 6.0, q1[0].Rate, 1e-9)
	assert.InDelta(t, 8.0, q2[0].Rate, 1e-9)
	assert.Equal(t, 2, shared.Len())
}

func TestQuoteServicePublishes(t *testing.T) {
	pub := &fakePublisher{}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewQuoteService(NewPricingEngine(testTable()), newRecordedMetrics(), WithPublisher(pub))
	svc.now = func() time.Time { return fixed }

	p := baseProfile()
	quotes, err := svc.Quote(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, fixed, ev.IssuedAt)
	assert.Equal(t, "CA", ev.State)
	assert.Equal(t, p.LoanValue, ev.LoanValue)
	assert.Equal(t, quotes, ev.Quotes)
}

func TestQuoteServicePublishFailureDoesNotFailQuote(t *testing.T) {
	m := newRecordedMetrics()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewQuoteService(NewPricingEngine(testTable()), m, WithPublisher(pub))

	quotes, err := svc.Quote(context.Background(), baseProfile())
	require.NoError(t, err)
	assert.Len(t, quotes, 4)
	assert.Equal(t, 1, m.errors["publish"])
}

func TestQuoteServiceConfigError(t *testing.T) {
	m := newRecordedMetrics()
	pub := &fakePublisher{}
	svc := NewQuoteService(NewPricingEngine(ratetable.New("empty", nil)), m, WithPublisher(pub))

	_, err := svc.Quote(context.Background(), baseProfile())
	assert.ErrorIs(t, err, ErrNoRateData)
	assert.Equal(t, 1, m.errors["config"])
	assert.Empty(t, pub.events)
}
