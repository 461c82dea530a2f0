package repository

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"MortgageCalc/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRateCSV(t *testing.T) {
	pts, err := ParseRateCSV(strings.NewReader("Points,Rate\n-0.5, 7.2\n0.0,7.0\n0.5,6.8\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.RatePoint{
		{Points: -0.5, Rate: 7.2},
		{Points: 0.0, Rate: 7.0},
		{Points: 0.5, Rate: 6.8},
	}, pts)
}

func TestParseRateCSVHeaderOnly(t *testing.T) {
	pts, err := ParseRateCSV(strings.NewReader("Points,Rate\n"))
	require.NoError(t, err)
	assert.Empty(t, pts)
}

func TestParseRateCSVEmpty(t *testing.T) {
	pts, err := ParseRateCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
}

func TestParseRateCSVSkipsShortRows(t *testing.T) {
	pts, err := ParseRateCSV(strings.NewReader("Points,Rate\n0.0,7.0\n1.0\n1.0,6.6\n"))
	require.NoError(t, err)
	assert.Len(t, pts, 2)
}

func TestParseRateCSVBadNumber(t *testing.T) {
	_, err := ParseRateCSV(strings.NewReader("Points,Rate\n0.0,7.0\nabc,6.6\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestFSRateSource(t *testing.T) {
	src := NewFSRateSource(fstest.MapFS{
		"fixed_30.csv": {Data: []byte("Points,Rate\n0,7.1\n")},
	}, "mem")

	pts, err := src.RatePoints(context.Background(), "fixed_30")
	require.NoError(t, err)
	assert.Equal(t, []models.RatePoint{{Points: 0, Rate: 7.1}}, pts)
	assert.Equal(t, "mem", src.Name())

	_, err = src.RatePoints(context.Background(), "arm_5_1")
	assert.Error(t, err)
}

func TestEmbeddedRateSourceCoversAllProducts(t *testing.T) {
	src := NewEmbeddedRateSource()
	assert.Equal(t, "csv:embedded", src.Name())

	for _, key := range models.ProductKeys() {
		pts, err := src.RatePoints(context.Background(), key)
		require.NoError(t, err, key)
		assert.Len(t, pts, 5, key)
	}

	pts, err := src.RatePoints(context.Background(), models.ProductFixed30)
	require.NoError(t, err)
	assert.Equal(t, models.RatePoint{Points: 0.0, Rate: 7.0}, pts[2])
}
