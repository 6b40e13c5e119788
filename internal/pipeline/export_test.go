package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskworks/sitescout/internal/model"
)

func TestExportCSV(t *testing.T) {
	report := &model.Report{
		Qualified: []model.ZipResult{{
			EnrichedZip: model.EnrichedZip{
				ZipRecord:  model.ZipRecord{ZipCode: "78701"},
				City:       "Austin",
				State:      "TX",
				Population: 20000,
				AreaSqMi:   4,
				Density:    5000,
			},
			Verdict: model.Verdict{Qualified: true},
		}},
		Rejected: []model.ZipResult{{
			EnrichedZip: model.EnrichedZip{
				ZipRecord: model.ZipRecord{ZipCode: "10001"},
				City:      model.UnknownSentinel,
				State:     model.UnknownSentinel,
			},
			Verdict: model.Verdict{Reasons: []string{"Low population", "Low population density"}},
		}},
		WithContact: []model.BusinessRecord{{
			ZipCode:    "78701",
			Name:       "Coffee Roasters",
			Address:    "100 Congress Ave",
			Category:   "cafe",
			Phone:      "512-555-0100",
			Website:    "https://coffee.example.com",
			DailyHours: 10,
			Contact: model.OwnerContact{
				Emails:     []string{"owner@coffee.example.com"},
				Phones:     []string{"512-555-0199"},
				OwnerLines: []string{"Ask for the owner, Dana."},
			},
			OutreachNote: "Reach out to Coffee Roasters",
		}},
		WithoutContact: []model.BusinessRecord{{
			ZipCode:    "78701",
			Name:       "Laundry Stop",
			Category:   "laundry",
			DailyHours: 15,
		}},
	}

	dir := t.TempDir()
	require.NoError(t, ExportCSV(filepath.Join(dir, "out"), report))

	qualified := readCSVFile(t, filepath.Join(dir, "out", FileQualified))
	require.Len(t, qualified, 2)
	assert.Equal(t, []string{"zip_code", "city", "state", "population", "area_sq_mi", "density"}, qualified[0])
	assert.Equal(t, []string{"78701", "Austin", "TX", "20000", "4.00", "5000.00"}, qualified[1])

	rejected := readCSVFile(t, filepath.Join(dir, "out", FileRejected))
	require.Len(t, rejected, 2)
	assert.Equal(t, "reasons", rejected[0][6])
	assert.Equal(t, "Low population, Low population density", rejected[1][6])

	with := readCSVFile(t, filepath.Join(dir, "out", FileWithContact))
	require.Len(t, with, 2)
	assert.Equal(t, "Coffee Roasters", with[1][1])
	assert.Equal(t, "512-555-0100", with[1][4])
	assert.Equal(t, "owner@coffee.example.com", with[1][7])
	assert.Equal(t, "Reach out to Coffee Roasters", with[1][10])

	without := readCSVFile(t, filepath.Join(dir, "out", FileWithoutContact))
	require.Len(t, without, 2)
	assert.Equal(t, "Laundry Stop", without[1][1])
}

func TestExportCSVEmptyReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ExportCSV(dir, &model.Report{}))

	for _, name := range []string{FileQualified, FileRejected, FileWithContact, FileWithoutContact} {
		rows := readCSVFile(t, filepath.Join(dir, name))
		assert.Len(t, rows, 1, name) // header only
	}
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
