package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"MortgageCalc/internal/domain/models"
	drepo "MortgageCalc/internal/domain/repository"
	applogger "MortgageCalc/pkg/logger"

	"github.com/google/uuid"
)

// QuoteOption configures QuoteService.
type QuoteOption func(*QuoteService)

// WithCache enables response caching for ttl.
func WithCache(c drepo.QuoteCache, ttl time.Duration) QuoteOption {
	return func(s *QuoteService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithPublisher emits a QuoteEvent per successful quote.
func WithPublisher(p drepo.QuotePublisher) QuoteOption {
	return func(s *QuoteService) {
		s.pub = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) QuoteOption {
	return func(s *QuoteService) {
		s.log = l
	}
}

// QuoteService wraps the pricing engine with caching, events and metrics.
type QuoteService struct {
	engine   *PricingEngine
	metrics  drepo.Metrics
	cache    drepo.QuoteCache
	cacheTTL time.Duration
	pub      drepo.QuotePublisher
	log      *applogger.Logger
	now      func() time.Time
}

// NewQuoteService creates a QuoteService.
func NewQuoteService(engine *PricingEngine, metrics drepo.Metrics, opts ...QuoteOption) *QuoteService {
	s := &QuoteService{
		engine:  engine,
		metrics: metrics,
		log:     applogger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote returns the four product quotes for a validated profile. Cache hits
// skip pricing but are otherwise counted and published like fresh quotes.
func (s *QuoteService) Quote(ctx context.Context, profile models.ApplicantProfile) ([]models.MortgageQuote, error) {
	start := time.Now()
	key := cacheKey(s.engine.TableVersion(), profile)

	quotes, hit := s.fromCache(ctx, key)
	if !hit {
		var err error
		quotes, err = s.engine.Quote(profile)
		if err != nil {
			s.metrics.RecordError("config")
			return nil, err
		}
		s.toCache(ctx, key, quotes)
	}
	s.metrics.RecordLatency("quote", time.Since(start).Seconds())

	for _, q := range quotes {
		s.metrics.RecordQuote(q.MortgageType)
		for _, r := range q.AppliedRules {
			s.metrics.RecordRuleApplied(r)
		}
	}

	s.publish(ctx, profile, quotes)
	return quotes, nil
}

func (s *QuoteService) fromCache(ctx context.Context, key string) ([]models.MortgageQuote, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		s.log.Warn("quote cache_get_error", applogger.Error(err))
		return nil, false
	}
	if !ok {
		s.metrics.RecordCache("miss")
		return nil, false
	}
	var quotes []models.MortgageQuote
	if err := json.Unmarshal(b, &quotes); err != nil {
		s.log.Warn("quote cache_decode_error", applogger.Error(err))
		return nil, false
	}
	s.metrics.RecordCache("hit")
	s.log.Debug("quote cache_hit", applogger.String("key", key))
	return quotes, true
}

func (s *QuoteService) toCache(ctx context.Context, key string, quotes []models.MortgageQuote) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(quotes)
	if err != nil {
		s.log.Warn("quote cache_encode_error", applogger.Error(err))
		return
	}
	if err := s.cache.SetBytes(ctx, key, b, s.cacheTTL); err != nil {
		s.log.Warn("quote cache_set_error", applogger.Error(err))
	}
}

func (s *QuoteService) publish(ctx context.Context, profile models.ApplicantProfile, quotes []models.MortgageQuote) {
	if s.pub == nil {
		return
	}
	ev := &models.QuoteEvent{
		ID:        uuid.NewString(),
		IssuedAt:  s.now().UTC(),
		State:     profile.State,
		HomeType:  profile.HomeType,
		LoanValue: profile.LoanValue,
		Points:    profile.Points,
		Quotes:    quotes,
	}
	if err := s.pub.PublishQuote(ctx, ev); err != nil {
		s.metrics.RecordError("publish")
		s.log.Error("quote publish_error", applogger.String("event_id", ev.ID), applogger.Error(err))
	}
}

// cacheKey scopes the hash of the canonical profile JSON to one rate table
// version, so a shared cache never serves quotes priced on another table.
func cacheKey(tableVersion string, p models.ApplicantProfile) string {
	b, _ := json.Marshal(p)
	sum := sha256.Sum256(b)
	return "quote:" + tableVersion + ":" + hex.EncodeToString(sum[:])
}
