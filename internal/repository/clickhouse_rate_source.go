package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"MortgageCalc/internal/domain/models"
)

// ClickHouseRateSource reads rate curves from a ClickHouse table with
// columns (product String, position UInt32, points Float64, rate Float64).
type ClickHouseRateSource struct {
	db    *sql.DB
	table string
}

func NewClickHouseRateSource(db *sql.DB, table string) *ClickHouseRateSource {
	return &ClickHouseRateSource{db: db, table: table}
}

// SchemaStatements returns the idempotent DDL for table.
func SchemaStatements(database, table string) []string {
	stmts := make([]string, 0, 2)
	if database != "" {
		stmts = append(stmts, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database))
	}
	return append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (product String, position UInt32, points Float64, rate Float64) ENGINE=MergeTree ORDER BY (product, position)", table))
}

func (s *ClickHouseRateSource) Name() string { return "clickhouse:" + s.table }

// RatePoints returns the curve of productKey ordered by position.
func (s *ClickHouseRateSource) RatePoints(ctx context.Context, productKey string) ([]models.RatePoint, error) {
	q := fmt.Sprintf("SELECT points, rate FROM %s WHERE product = ? ORDER BY position ASC", s.table)
	rows, err := s.db.QueryContext(ctx, q, productKey)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	pts := make([]models.RatePoint, 0, 8)
	for rows.Next() {
		var rp models.RatePoint
		if err := rows.Scan(&rp.Points, &rp.Rate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		pts = append(pts, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return pts, nil
}

// Count returns the number of rows stored for productKey.
func (s *ClickHouseRateSource) Count(ctx context.Context, productKey string) (int, error) {
	var n uint64
	q := fmt.Sprintf("SELECT count() FROM %s WHERE product = ?", s.table)
	if err := s.db.QueryRowContext(ctx, q, productKey).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rates: %w", err)
	}
	return int(n), nil
}

// Seed inserts a curve for productKey in one multi-row statement,
// preserving order through the position column.
func (s *ClickHouseRateSource) Seed(ctx context.Context, productKey string, pts []models.RatePoint) error {
	if len(pts) == 0 {
		return nil
	}
	values := make([]string, 0, len(pts))
	args := make([]interface{}, 0, len(pts)*4)
	for i, rp := range pts {
		values = append(values, "(?, ?, ?, ?)")
		args = append(args, productKey, uint32(i), rp.Points, rp.Rate)
	}
	q := fmt.Sprintf("INSERT INTO %s (product, position, points, rate) VALUES %s", s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("seed %s: %w", productKey, err)
	}
	return nil
}
