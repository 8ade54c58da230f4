package gazette

import (
	"regexp"
	"strings"
)

// Block is one cause entry's raw text, tagged with the court of its
// enclosing section when the sectioned gazette layout is in use.
type Block struct {
	CourtName string
	Text      string
}

var (
	causeMarkerRe = regexp.MustCompile(`(?i)CAUSE\s+NO\.?`)
	terminatorRe  = regexp.MustCompile(`(?i)GAZETTE\s+NOTICE`)

	// Court section headers and in-block court mentions share one shape:
	// a court designation followed by "AT <STATION>".
	courtAtRe = regexp.MustCompile(`(?i)\b(?:HIGH COURT(?:\s+OF\s+KENYA)?|` +
		`(?:CHIEF|SENIOR(?:\s+PRINCIPAL)?|PRINCIPAL|RESIDENT)\s+MAGISTRATE'?S?\s+COURT|` +
		`KADHI'?S?\s+COURT|MAGISTRATE'?S?\s+COURT)\s+AT\s+`)
)

// stationStopWords end a station name during the token walk after "AT".
var stationStopWords = map[string]bool{
	"CAUSE":          true,
	"GAZETTE":        true,
	"NOTICE":         true,
	"PROBATE":        true,
	"ADMINISTRATION": true,
	"IN":             true,
	"THE":            true,
	"TAKE":           true,
	"AND":            true,
}

// Segment splits normalized scan text into per-cause blocks. A block spans
// from one cause-number marker up to the next marker, a "GAZETTE NOTICE"
// terminator or the end of text. Preamble before the first marker is
// discarded. Zero markers is a warning, not a failure.
func Segment(text string) []Block {
	markers := causeMarkerRe.FindAllStringIndex(text, -1)
	if len(markers) == 0 {
		log.Warnf("no cause-number markers in scan text")
		return nil
	}

	headers := courtAtRe.FindAllStringIndex(text, -1)

	blocks := make([]Block, 0, len(markers))
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		body := text[m[0]:end]
		if t := terminatorRe.FindStringIndex(body); t != nil {
			body = body[:t[0]]
		}

		blocks = append(blocks, Block{
			CourtName: enclosingStation(text, headers, m[0]),
			Text:      strings.TrimSpace(body),
		})
	}
	return blocks
}

// enclosingStation returns the station named by the last court header that
// starts before offset, or "" when the text has no section headers before
// the block.
func enclosingStation(text string, headers [][]int, offset int) string {
	for i := len(headers) - 1; i >= 0; i-- {
		if headers[i][0] < offset {
			return stationName(text[headers[i][1]:])
		}
	}
	return ""
}

// stationName walks tokens following "AT" until a stop word, a lowercase
// token or a token carrying digits. Station names are one or two plain uppercase words in
// well-formed gazettes, but multi-word stations (e.g. "KERUGOYA KUTUS")
// are kept whole.
func stationName(rest string) string {
	var words []string
	for _, tok := range strings.Fields(rest) {
		clean := strings.Trim(tok, ".,;:()")
		if clean == "" || clean != strings.ToUpper(clean) ||
			stationStopWords[clean] || strings.ContainsAny(clean, "0123456789") {
			break
		}
		words = append(words, clean)
		if len(words) == 3 {
			break
		}
	}
	return strings.Join(words, " ")
}
