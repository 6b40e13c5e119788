package pipeline

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/model"
)

// Input column names. zip_code is mandatory; the rest are used
// opportunistically by qualification rules when present.
const (
	colZipCode       = "zip_code"
	colAnalyticsFlag = "analytics_flag"
	colRemovalRate   = "removal_rate"
	colTotalKiosks   = "total_kiosks"
	colInstalled     = "kiosks_installed"
)

// ParseRows maps a header row plus data rows into ZipRecords. A missing
// zip_code column is fatal and reported before any network call; rows whose
// ZIP cannot be normalized are skipped with a warning.
func ParseRows(rows [][]string) ([]model.ZipRecord, error) {
	if len(rows) == 0 {
		return nil, eris.New("pipeline: input is empty, missing required column: zip_code")
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	zipIdx, ok := cols[colZipCode]
	if !ok {
		return nil, eris.Errorf("pipeline: missing required column: %s (found: %s)",
			colZipCode, strings.Join(rows[0], ", "))
	}

	var records []model.ZipRecord
	for n, row := range rows[1:] {
		if zipIdx >= len(row) {
			continue
		}
		zip, err := model.NormalizeZip(row[zipIdx])
		if err != nil {
			zap.L().Warn("skipping input row with invalid zip",
				zap.Int("row", n+2),
				zap.String("value", row[zipIdx]),
				zap.Error(err))
			continue
		}

		rec := model.ZipRecord{ZipCode: zip}
		if v, ok := cell(row, cols, colAnalyticsFlag); ok {
			rec.AnalyticsFlag = v
			rec.HasAnalyticsFlag = true
		}
		if v, ok := cell(row, cols, colRemovalRate); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				rec.RemovalRate = f
				rec.HasRemovalRate = true
			}
		}
		if v, ok := cell(row, cols, colTotalKiosks); ok {
			if n, err := strconv.Atoi(strings.TrimSuffix(v, ".0")); err == nil {
				rec.TotalKiosks = n
				rec.HasTotalKiosks = true
			}
		}
		if v, ok := cell(row, cols, colInstalled); ok {
			if n, err := strconv.Atoi(strings.TrimSuffix(v, ".0")); err == nil {
				rec.InstalledKiosks = n
				rec.HasInstalledKiosks = true
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// cell returns the named column's value when the column exists and the row
// has a non-empty cell there.
func cell(row []string, cols map[string]int, name string) (string, bool) {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return "", false
	}
	return v, true
}
