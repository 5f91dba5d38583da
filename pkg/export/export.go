package export

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

type RideRow struct {
	RideNumber string
	Date       time.Time
	Pickup     string
	Drop       string
	DistanceKm decimal.Decimal
	Fare       decimal.Decimal
	Status     string
}

type File struct {
	Name string
	Data []byte
}

var columns = []struct {
	title string
	width float64
}{
	{"Ride", 34},
	{"Date", 26},
	{"Pickup", 42},
	{"Drop", 42},
	{"Km", 14},
	{"Fare", 18},
	{"Status", 22},
}

// RidesPDF writes a one-table PDF listing rows under the given title.
func RidesPDF(w io.Writer, title string, rows []RideRow) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetMargins(8, 10, 8)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	total := decimal.Zero
	for _, r := range rows {
		cells := []string{
			r.RideNumber,
			r.Date.Format("2006-01-02 15:04"),
			truncate(r.Pickup, 28),
			truncate(r.Drop, 28),
			r.DistanceKm.StringFixed(1),
			r.Fare.StringFixed(2),
			r.Status,
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 6, tr(cells[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		total = total.Add(r.Fare)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("Rides: %d   Total fare: %s", len(rows), total.StringFixed(2)), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// Zip bundles files into a single archive written to w.
func Zip(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("add %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
