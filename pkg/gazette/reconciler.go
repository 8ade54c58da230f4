package gazette

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/KeithOmondi/principle-registry/pkg/models"
)

// Reconciler runs one scan end to end: metadata extraction, segmentation,
// field extraction, court resolution, record matching, persistence. The
// stages are linear; there are no back-edges.
type Reconciler struct {
	courts          CourtDirectory
	records         RecordDirectory
	sink            ScanSink
	now             func() time.Time
	mutationWorkers int
}

type Option func(*Reconciler)

// WithClock overrides the wall clock, used by the metadata date fallback.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithMutationWorkers bounds the concurrent record writes.
func WithMutationWorkers(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.mutationWorkers = n
		}
	}
}

func NewReconciler(courts CourtDirectory, records RecordDirectory, sink ScanSink, opts ...Option) *Reconciler {
	r := &Reconciler{
		courts:          courts,
		records:         records,
		sink:            sink,
		now:             time.Now,
		mutationWorkers: 4,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ScanInput is one scan request: the normalized PDF text, the original
// filename and the acting user.
type ScanInput struct {
	Text       string
	FileName   string
	ScanId     string
	UploadedBy uint
}

// ScanReport is the success payload of one scan.
type ScanReport struct {
	Gazette        *models.Gazette `json:"gazette"`
	ScanLog        *models.ScanLog `json:"scanLog"`
	TotalRecords   int             `json:"totalRecords"`
	PublishedCount int             `json:"publishedCount"`
}

// Reconcile processes one scan. Record mutations commit first, one write
// per matched record, then the Gazette and ScanLog are persisted. Mutations
// already committed are not rolled back when a later write fails; losing
// them would be worse than losing the audit entries.
func (r *Reconciler) Reconcile(ctx context.Context, in ScanInput) (*ScanReport, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrNoUpload
	}
	if in.UploadedBy == 0 {
		return nil, ErrNoUser
	}

	meta := ExtractMetadata(in.Text, r.now())

	blocks := Segment(in.Text)
	cases := make([]ExtractedCase, 0, len(blocks))
	for _, b := range blocks {
		c := ExtractFields(b)
		c.VolumeNo = meta.VolumeNo
		c.DatePublished = meta.DatePublished
		cases = append(cases, c)
	}

	r.resolveCourts(ctx, cases)

	results, published := r.matchRecords(ctx, cases)
	r.applyMutations(ctx, results, meta)

	g := &models.Gazette{
		VolumeNo:       meta.VolumeNo,
		DatePublished:  meta.DatePublished,
		FileName:       in.FileName,
		ScanId:         in.ScanId,
		TotalRecords:   len(cases),
		PublishedCount: published,
		UploadedByID:   in.UploadedBy,
	}
	for _, res := range results {
		g.Cases = append(g.Cases, models.GazetteCase{
			CauseNo:        res.Case.CauseNo,
			CourtName:      res.Case.CourtNameRaw,
			CourtStationID: res.Case.CourtStationID,
			NameOfDeceased: res.Case.NameOfDeceased,
			Status:         res.Case.Status,
			Matched:        res.Record != nil,
		})
	}
	if err := r.sink.SaveGazette(ctx, g); err != nil {
		return nil, &PersistError{Entity: "gazette", Err: err}
	}

	l := &models.ScanLog{
		FileName:       in.FileName,
		TotalRecords:   len(cases),
		PublishedCount: published,
		Remarks:        fmt.Sprintf("%d of %d gazette cases matched existing records", published, len(cases)),
		UploadedByID:   in.UploadedBy,
	}
	if err := r.sink.SaveScanLog(ctx, l); err != nil {
		return nil, &PersistError{Entity: "scan log", Err: err}
	}

	log.Infof("scan %q: %d cases extracted, %d published", in.FileName, len(cases), published)
	return &ScanReport{
		Gazette:        g,
		ScanLog:        l,
		TotalRecords:   len(cases),
		PublishedCount: published,
	}, nil
}
