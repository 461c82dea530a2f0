package ratetable

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"

	"MortgageCalc/internal/domain/models"
	"MortgageCalc/internal/domain/repository"
)

// ErrEmptyProduct is returned by Load when a source yields no rate points.
var ErrEmptyProduct = errors.New("ratetable: no rate points")

// Table is an immutable product -> rate curve mapping. It is built once by
// Load and is safe for concurrent reads without locking.
type Table struct {
	source      string
	points      map[string][]models.RatePoint
	fingerprint string
}

// New builds a table from in-memory curves. Curves are copied.
func New(source string, curves map[string][]models.RatePoint) *Table {
	m := make(map[string][]models.RatePoint, len(curves))
	for k, v := range curves {
		m[k] = append([]models.RatePoint(nil), v...)
	}
	return &Table{source: source, points: m, fingerprint: fingerprint(source, m)}
}

// Load reads every product key from src. Any read failure or empty curve
// fails the whole load.
func Load(ctx context.Context, src repository.RateSource, keys []string) (*Table, error) {
	m := make(map[string][]models.RatePoint, len(keys))
	for _, key := range keys {
		pts, err := src.RatePoints(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load %s from %s: %w", key, src.Name(), err)
		}
		if len(pts) == 0 {
			return nil, fmt.Errorf("load %s from %s: %w", key, src.Name(), ErrEmptyProduct)
		}
		m[key] = pts
	}
	return &Table{source: src.Name(), points: m, fingerprint: fingerprint(src.Name(), m)}, nil
}

// Get returns a copy of the curve for key, or an empty slice for unknown keys.
func (t *Table) Get(key string) []models.RatePoint {
	pts, ok := t.points[key]
	if !ok {
		return []models.RatePoint{}
	}
	return append([]models.RatePoint(nil), pts...)
}

// Len reports the number of loaded products.
func (t *Table) Len() int { return len(t.points) }

// Source names the rate source the table was loaded from.
func (t *Table) Source() string { return t.source }

// Fingerprint identifies the table contents. Tables with the same source and
// curves share a fingerprint; any changed point changes it.
func (t *Table) Fingerprint() string { return t.fingerprint }

func fingerprint(source string, m map[string][]models.RatePoint) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	_, _ = io.WriteString(h, source)
	for _, k := range keys {
		fmt.Fprintf(h, "|%s", k)
		for _, rp := range m[k] {
			fmt.Fprintf(h, ";%g,%g", rp.Points, rp.Rate)
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
