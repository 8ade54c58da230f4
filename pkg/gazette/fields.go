package gazette

import (
	"regexp"
	"strings"
	"time"

	"github.com/KeithOmondi/principle-registry/pkg/models"
)

// Sentinels keep degraded extractions in the output instead of dropping
// them; manual correction is cheap, losing extracted cases is not.
const (
	SentinelCauseNo  = "N/A"
	SentinelDeceased = "Unknown Deceased"
	SentinelStation  = "UNKNOWN"
)

// ExtractedCase is one case as asserted by the gazette document. The court
// reference stays unresolved until ResolveCourts runs.
type ExtractedCase struct {
	CauseNo        string
	CourtNameRaw   string
	CourtStationID *uint
	NameOfDeceased string
	NameDisplay    string
	VolumeNo       string
	DatePublished  time.Time
	Status         models.GPStatus
}

var (
	causeNoRe  = regexp.MustCompile(`(?i)CAUSE\s+NO\.?\s*([A-Z]{0,2}\.?\s?\d+[A-Z]?(?:\s*(?:/|OF)\s*\d{4})?)`)
	estateOfRe = regexp.MustCompile(`(?i)estate\s+of\s+(?:the\s+late\s+)?(.+)`)

	// Terminators for the deceased name, first occurrence wins.
	nameEndRe = regexp.MustCompile(`(?i),|–|—|\blate\b|\bwho\b|\bdeceased\b`)
)

// ExtractFields derives the cause number, deceased name and raw court name
// from one block. Fields fail independently: a missing group degrades to
// its sentinel without blocking the others.
func ExtractFields(b Block) ExtractedCase {
	c := ExtractedCase{
		CauseNo:        SentinelCauseNo,
		CourtNameRaw:   SentinelStation,
		NameOfDeceased: SentinelDeceased,
		NameDisplay:    SentinelDeceased,
		Status:         models.StatusPublished,
	}

	if m := causeNoRe.FindStringSubmatch(b.Text); m != nil {
		c.CauseNo = strings.TrimSpace(m[1])
	}

	if b.CourtName != "" {
		c.CourtNameRaw = b.CourtName
	} else if at := courtAtRe.FindStringIndex(b.Text); at != nil {
		// Flat layout: the court is embedded in the block itself.
		if s := stationName(b.Text[at[1]:]); s != "" {
			c.CourtNameRaw = s
		}
	}

	if m := estateOfRe.FindStringSubmatch(b.Text); m != nil {
		name := m[1]
		if end := nameEndRe.FindStringIndex(name); end != nil {
			name = name[:end[0]]
		}
		name = strings.Join(strings.Fields(name), " ")
		if name != "" {
			c.NameDisplay = name
			c.NameOfDeceased = strings.ToLower(name)
		}
	}

	return c
}

// NormalizeName is the matching form of a deceased name: whitespace
// collapsed, trimmed, lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
