package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"MortgageCalc/internal/domain/models"
	pkgkafka "MortgageCalc/pkg/kafka"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaQuotePublisher(t *testing.T) {
	w := &captureWriter{}
	pub := NewKafkaQuotePublisher(pkgkafka.NewProducerWithWriter(w, "none"), "mortgage.quotes")

	ev := &models.QuoteEvent{
		ID:        "evt-1",
		IssuedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		State:     "NY",
		LoanValue: 400000,
		Quotes:    []models.MortgageQuote{{MortgageType: "30-Year Fixed", Rate: 7.75}},
	}
	require.NoError(t, pub.PublishQuote(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "mortgage.quotes", msg.Topic)
	assert.Equal(t, []byte("NY"), msg.Key)

	var got models.QuoteEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, ev.Quotes, got.Quotes)

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}
