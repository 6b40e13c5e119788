package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/kioskworks/sitescout/internal/model"
)

// Export file names, one per report partition.
const (
	FileQualified      = "qualified.csv"
	FileRejected       = "rejected.csv"
	FileWithContact    = "businesses_with_contact.csv"
	FileWithoutContact = "businesses_without_contact.csv"
)

// ExportCSV writes the four report partitions as CSV files under dir,
// creating it if needed. Each file carries a header row.
func ExportCSV(dir string, report *model.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "pipeline: create export dir %s", dir)
	}

	if err := writeCSV(filepath.Join(dir, FileQualified), zipHeader(false), zipRows(report.Qualified, false)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, FileRejected), zipHeader(true), zipRows(report.Rejected, true)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, FileWithContact), businessHeader(), businessRows(report.WithContact)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, FileWithoutContact), businessHeader(), businessRows(report.WithoutContact))
}

func zipHeader(withReasons bool) []string {
	h := []string{"zip_code", "city", "state", "population", "area_sq_mi", "density"}
	if withReasons {
		h = append(h, "reasons")
	}
	return h
}

func zipRows(results []model.ZipResult, withReasons bool) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{
			r.ZipCode,
			r.City,
			r.State,
			strconv.Itoa(r.Population),
			formatFloat(r.AreaSqMi),
			formatFloat(r.Density),
		}
		if withReasons {
			row = append(row, r.Verdict.ReasonString())
		}
		rows = append(rows, row)
	}
	return rows
}

func businessHeader() []string {
	return []string{
		"zip_code", "name", "address", "category", "phone", "website",
		"daily_hours", "emails", "scraped_phones", "owner_lines", "outreach_note",
	}
}

func businessRows(records []model.BusinessRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, b := range records {
		rows = append(rows, []string{
			b.ZipCode,
			b.Name,
			b.Address,
			b.Category,
			b.Phone,
			b.Website,
			formatFloat(b.DailyHours),
			strings.Join(b.Contact.Emails, "; "),
			strings.Join(b.Contact.Phones, "; "),
			strings.Join(b.Contact.OwnerLines, " | "),
			b.OutreachNote,
		})
	}
	return rows
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "pipeline: create %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrapf(err, "pipeline: write header %s", path)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "pipeline: write row %s", path)
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "pipeline: flush %s", path)
}
