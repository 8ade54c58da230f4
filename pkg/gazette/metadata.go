package gazette

import (
	"fmt"
	"regexp"
	"time"

	"github.com/denysvitali/go-datesfinder"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger().WithField("package", "gazette")

// UnknownVolume is the sentinel used when no volume pattern is found.
const UnknownVolume = "Unknown Volume"

// Metadata is the gazette-wide header information.
type Metadata struct {
	VolumeNo      string
	DatePublished time.Time
}

var volumeRe = regexp.MustCompile(`(?i)Vol(?:ume)?\.?\s+((?:[A-Z]+\s*)?[–—-]?\s*No\.?\s*\d+)`)

var dateRe = regexp.MustCompile(`(?i)(?:published\s+on\s+)?(\d{1,2})\s*(?:st|nd|rd|th)?\s+` +
	`(January|February|March|April|May|June|July|August|September|October|November|December),?\s+(\d{4})`)

// ExtractMetadata pulls the volume number and publication date out of the
// scan text. It never fails: a missing volume degrades to UnknownVolume and
// a missing or unparseable date degrades to now.
func ExtractMetadata(text string, now time.Time) Metadata {
	m := Metadata{VolumeNo: UnknownVolume, DatePublished: now}

	if v := volumeRe.FindStringSubmatch(text); v != nil {
		m.VolumeNo = v[1]
	} else {
		log.Warnf("no volume pattern in scan text, using %q", UnknownVolume)
	}

	if d := dateRe.FindStringSubmatch(text); d != nil {
		parsed, err := time.Parse("2 January 2006", fmt.Sprintf("%s %s %s", d[1], d[2], d[3]))
		if err == nil {
			m.DatePublished = parsed
			return m
		}
		log.Warnf("unparseable publication date %q: %v", d[0], err)
	}

	// Header did not carry a recognizable date; let datesfinder have a go
	// before falling back to the wall clock.
	dates, _ := datesfinder.FindDates(text)
	if len(dates) > 0 {
		m.DatePublished = dates[0]
	} else {
		log.Warnf("no publication date in scan text, using current date")
	}
	return m
}
