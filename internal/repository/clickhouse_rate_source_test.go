package repository

import (
	"context"
	"errors"
	"testing"

	"MortgageCalc/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSource(t *testing.T) (*ClickHouseRateSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewClickHouseRateSource(db, "mc.mortgage_rates"), mock
}

func TestClickHouseRatePoints(t *testing.T) {
	src, mock := newMockSource(t)

	mock.ExpectQuery("SELECT points, rate FROM mc.mortgage_rates WHERE product = ? ORDER BY position ASC").
		WithArgs("fixed_30").
		WillReturnRows(sqlmock.NewRows([]string{"points", "rate"}).
			AddRow(-1.0, 7.5).
			AddRow(0.0, 7.0))

	pts, err := src.RatePoints(context.Background(), "fixed_30")
	require.NoError(t, err)
	assert.Equal(t, []models.RatePoint{{Points: -1.0, Rate: 7.5}, {Points: 0.0, Rate: 7.0}}, pts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseRatePointsQueryError(t *testing.T) {
	src, mock := newMockSource(t)

	mock.ExpectQuery("SELECT points, rate FROM mc.mortgage_rates WHERE product = ? ORDER BY position ASC").
		WithArgs("fixed_15").
		WillReturnError(errors.New("connection refused"))

	_, err := src.RatePoints(context.Background(), "fixed_15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query rates")
}

func TestClickHouseCount(t *testing.T) {
	src, mock := newMockSource(t)

	mock.ExpectQuery("SELECT count() FROM mc.mortgage_rates WHERE product = ?").
		WithArgs("arm_5_1").
		WillReturnRows(sqlmock.NewRows([]string{"count()"}).AddRow(int64(5)))

	n, err := src.Count(context.Background(), "arm_5_1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseSeed(t *testing.T) {
	src, mock := newMockSource(t)

	mock.ExpectExec("INSERT INTO mc.mortgage_rates (product, position, points, rate) VALUES (?, ?, ?, ?),(?, ?, ?, ?)").
		WithArgs("arm_7_1", 0, -1.0, 6.7, "arm_7_1", 1, 0.0, 6.2).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := src.Seed(context.Background(), "arm_7_1", []models.RatePoint{{Points: -1.0, Rate: 6.7}, {Points: 0.0, Rate: 6.2}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseSeedEmptyIsNoop(t *testing.T) {
	src, mock := newMockSource(t)
	require.NoError(t, src.Seed(context.Background(), "arm_7_1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaStatements(t *testing.T) {
	stmts := SchemaStatements("mc", "mc.mortgage_rates")
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS mc", stmts[0])
	assert.Contains(t, stmts[1], "CREATE TABLE IF NOT EXISTS mc.mortgage_rates")

	assert.Len(t, SchemaStatements("", "mortgage_rates"), 1)
}
