package repository

import (
	"context"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"MortgageCalc/internal/domain/models"
)

//go:embed rates/*.csv
var embeddedRates embed.FS

// CSVRateSource reads "<product>.csv" files with a Points,Rate header row.
type CSVRateSource struct {
	fsys fs.FS
	name string
}

// NewCSVRateSource reads curves from dir on disk.
func NewCSVRateSource(dir string) *CSVRateSource {
	return &CSVRateSource{fsys: os.DirFS(dir), name: "csv:" + dir}
}

// NewEmbeddedRateSource reads the curves compiled into the binary.
func NewEmbeddedRateSource() *CSVRateSource {
	sub, err := fs.Sub(embeddedRates, "rates")
	if err != nil {
		// only fails on a malformed literal path
		panic(err)
	}
	return &CSVRateSource{fsys: sub, name: "csv:embedded"}
}

// NewFSRateSource reads curves from an arbitrary filesystem.
func NewFSRateSource(fsys fs.FS, name string) *CSVRateSource {
	return &CSVRateSource{fsys: fsys, name: name}
}

func (s *CSVRateSource) Name() string { return s.name }

// RatePoints parses <productKey>.csv. Rows with fewer than two columns are
// skipped; unparsable numbers fail the read.
func (s *CSVRateSource) RatePoints(_ context.Context, productKey string) ([]models.RatePoint, error) {
	f, err := s.fsys.Open(productKey + ".csv")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", productKey, err)
	}
	defer f.Close()
	return ParseRateCSV(f)
}

// ParseRateCSV decodes a two-column Points,Rate table.
func ParseRateCSV(r io.Reader) ([]models.RatePoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.RatePoint{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	pts := make([]models.RatePoint, 0, 8)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		line, _ := cr.FieldPos(0)
		points, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d points: %w", line, err)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d rate: %w", line, err)
		}
		pts = append(pts, models.RatePoint{Points: points, Rate: rate})
	}
	return pts, nil
}
