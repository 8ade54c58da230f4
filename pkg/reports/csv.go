// Package reports renders registry data for export.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KeithOmondi/principle-registry/pkg/models"
)

var recordHeader = []string{
	"Cause No", "Name of Deceased", "Court Station", "Form 60",
	"Status at G.P.", "Volume No", "Date Published",
}

// WriteRecordsCSV streams records as CSV, one row per record.
func WriteRecordsCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return err
	}
	for _, r := range records {
		station := ""
		if r.CourtStation != nil {
			station = r.CourtStation.Name
		}
		published := ""
		if r.DatePublished != nil {
			published = r.DatePublished.Format("2006-01-02")
		}
		row := []string{
			r.CauseNo,
			r.NameOfDeceased,
			station,
			string(r.Form60),
			string(r.StatusAtGP),
			r.VolumeNo,
			published,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
