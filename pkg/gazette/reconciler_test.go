package gazette_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/KeithOmondi/principle-registry/pkg/gazette"
	"github.com/KeithOmondi/principle-registry/pkg/models"
)

type fakeCourts struct {
	courts []models.Court
}

func (f *fakeCourts) FindByName(_ context.Context, fragment string) (*models.Court, error) {
	frag := strings.ToUpper(fragment)
	for i := range f.courts {
		if strings.Contains(strings.ToUpper(f.courts[i].Name), frag) {
			return &f.courts[i], nil
		}
	}
	return nil, nil
}

type fakeRecords struct {
	mu        sync.Mutex
	records   []models.Record
	published map[uint]gazette.PublicationUpdate
	calls     map[uint]int
}

func newFakeRecords(records ...models.Record) *fakeRecords {
	return &fakeRecords{
		records:   records,
		published: map[uint]gazette.PublicationUpdate{},
		calls:     map[uint]int{},
	}
}

func (f *fakeRecords) FindByDeceasedName(_ context.Context, name string) ([]models.Record, error) {
	var out []models.Record
	for _, r := range f.records {
		if strings.ToLower(r.NameOfDeceased) == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecords) MarkPublished(_ context.Context, recordID uint, upd gazette.PublicationUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[recordID]++
	for i := range f.records {
		if f.records[i].ID != recordID {
			continue
		}
		if f.records[i].StatusAtGP == models.StatusPublished {
			return nil
		}
		f.records[i].StatusAtGP = models.StatusPublished
		f.records[i].VolumeNo = upd.VolumeNo
		d := upd.DatePublished
		f.records[i].DatePublished = &d
		f.published[recordID] = upd
		return nil
	}
	return gorm.ErrRecordNotFound
}

type fakeSink struct {
	gazettes    []*models.Gazette
	logs        []*models.ScanLog
	failGazette bool
}

func (f *fakeSink) SaveGazette(_ context.Context, g *models.Gazette) error {
	if f.failGazette {
		return errors.New("insert failed")
	}
	f.gazettes = append(f.gazettes, g)
	return nil
}

func (f *fakeSink) SaveScanLog(_ context.Context, l *models.ScanLog) error {
	f.logs = append(f.logs, l)
	return nil
}

func record(id uint, name string) models.Record {
	r := models.Record{
		NameOfDeceased: name,
		StatusAtGP:     models.StatusPending,
	}
	r.ID = id
	return r
}

func newTestReconciler(courts *fakeCourts, records *fakeRecords, sink *fakeSink) *gazette.Reconciler {
	return gazette.NewReconciler(courts, records, sink,
		gazette.WithClock(func() time.Time { return testNow }))
}

const sampleGazette = "THE KENYA GAZETTE Vol. CXXVI No. 12 Published on 12th March, 2024 " +
	"IN THE HIGH COURT OF KENYA AT NAIROBI " +
	"CAUSE NO. 123 OF 2024 in the matter of the estate of JANE WANJIRU, deceased " +
	"CAUSE NO. 456 OF 2024 in the matter of the estate of PETER OTIENO, deceased " +
	"IN THE CHIEF MAGISTRATE'S COURT AT KISUMU " +
	"CAUSE NO. E9 OF 2024 in the matter of the estate of NO SUCH PERSON, deceased"

func TestReconcile_EndToEnd(t *testing.T) {
	courts := &fakeCourts{courts: []models.Court{
		{Model: gorm.Model{ID: 1}, Name: "High Court Nairobi"},
		{Model: gorm.Model{ID: 2}, Name: "Chief Magistrate Kisumu"},
	}}
	records := newFakeRecords(
		record(10, "jane wanjiru"),
		record(11, "peter otieno"),
	)
	sink := &fakeSink{}

	report, err := newTestReconciler(courts, records, sink).Reconcile(context.Background(), gazette.ScanInput{
		Text:       sampleGazette,
		FileName:   "gazette-12.pdf",
		ScanId:     "scan-1",
		UploadedBy: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 2, report.PublishedCount)

	require.Len(t, sink.gazettes, 1)
	g := sink.gazettes[0]
	assert.Equal(t, "CXXVI No. 12", g.VolumeNo)
	assert.Equal(t, time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC), g.DatePublished)
	assert.Equal(t, 3, g.TotalRecords)
	assert.Equal(t, 2, g.PublishedCount)
	require.Len(t, g.Cases, 3)
	assert.True(t, g.Cases[0].Matched)
	assert.True(t, g.Cases[1].Matched)
	assert.False(t, g.Cases[2].Matched)

	courtID := func(i int) uint {
		require.NotNil(t, g.Cases[i].CourtStationID, "case %d court unresolved", i)
		return *g.Cases[i].CourtStationID
	}
	assert.Equal(t, uint(1), courtID(0))
	assert.Equal(t, uint(1), courtID(1))
	assert.Equal(t, uint(2), courtID(2))

	require.Len(t, sink.logs, 1)
	assert.Equal(t, "2 of 3 gazette cases matched existing records", sink.logs[0].Remarks)

	upd, ok := records.published[10]
	require.True(t, ok)
	assert.Equal(t, "CXXVI No. 12", upd.VolumeNo)
	assert.Equal(t, time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC), upd.DatePublished)
}

func TestReconcile_SingleCaseGazette(t *testing.T) {
	courts := &fakeCourts{courts: []models.Court{
		{Model: gorm.Model{ID: 4}, Name: "NAIROBI"},
	}}
	records := newFakeRecords(record(20, "mary atieno"))
	sink := &fakeSink{}

	text := "Vol. A No. 45 published on 12th March, 2024 " +
		"IN THE HIGH COURT OF KENYA AT NAIROBI " +
		"CAUSE NO. 123/2024 in the matter of the estate of MARY ATIENO, deceased"
	report, err := newTestReconciler(courts, records, sink).Reconcile(context.Background(), gazette.ScanInput{
		Text:       text,
		FileName:   "g.pdf",
		UploadedBy: 1,
	})
	require.NoError(t, err)

	g := sink.gazettes[0]
	assert.Equal(t, "A No. 45", g.VolumeNo)
	assert.Equal(t, time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC), g.DatePublished)
	assert.Equal(t, 1, report.TotalRecords)
	assert.Equal(t, 1, report.PublishedCount)
	require.Len(t, g.Cases, 1)
	assert.Equal(t, "123/2024", g.Cases[0].CauseNo)
	assert.Equal(t, "mary atieno", g.Cases[0].NameOfDeceased)
	assert.Equal(t, "NAIROBI", g.Cases[0].CourtName)
}

// Name matching is case-insensitive on the normalized form.
func TestReconcile_CaseInsensitiveMatch(t *testing.T) {
	records := newFakeRecords(record(7, "Jane Wanjiru"))
	sink := &fakeSink{}

	report, err := newTestReconciler(&fakeCourts{}, records, sink).Reconcile(context.Background(), gazette.ScanInput{
		Text:       "CAUSE NO. 1 OF 2024 estate of jane WANJIRU, deceased",
		FileName:   "g.pdf",
		UploadedBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.PublishedCount)
	assert.Contains(t, records.published, uint(7))
}

// Zero markers is a clean degenerate scan, not a failure.
func TestReconcile_NoCauseEntries(t *testing.T) {
	sink := &fakeSink{}
	report, err := newTestReconciler(&fakeCourts{}, newFakeRecords(), sink).Reconcile(context.Background(), gazette.ScanInput{
		Text:       "a supplement with no probate section at all",
		FileName:   "empty.pdf",
		UploadedBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalRecords)
	assert.Equal(t, 0, report.PublishedCount)
	require.Len(t, sink.gazettes, 1)
	assert.Empty(t, sink.gazettes[0].Cases)
	require.Len(t, sink.logs, 1)
}

// A record is mutated at most once per scan even when the same name appears
// in several cases: first match wins, later duplicates stay unmatched.
func TestReconcile_DuplicateCaseSingleMutation(t *testing.T) {
	records := newFakeRecords(record(3, "jane wanjiru"))
	sink := &fakeSink{}

	report, err := newTestReconciler(&fakeCourts{}, records, sink).Reconcile(context.Background(), gazette.ScanInput{
		Text: "CAUSE NO. 1 OF 2024 estate of JANE WANJIRU, deceased " +
			"CAUSE NO. 2 OF 2024 estate of JANE WANJIRU, deceased",
		FileName:   "g.pdf",
		UploadedBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.PublishedCount)
	assert.Equal(t, 1, records.calls[3])

	g := sink.gazettes[0]
	require.Len(t, g.Cases, 2)
	assert.True(t, g.Cases[0].Matched)
	assert.False(t, g.Cases[1].Matched)
}

// Re-running the same scan never reverts Published and reapplies the same
// terminal state at most.
func TestReconcile_RerunIsIdempotent(t *testing.T) {
	records := newFakeRecords(record(5, "jane wanjiru"))
	sink := &fakeSink{}
	r := newTestReconciler(&fakeCourts{}, records, sink)
	in := gazette.ScanInput{
		Text:       "Vol. I No. 1 12th March, 2024 CAUSE NO. 1 OF 2024 estate of JANE WANJIRU, deceased",
		FileName:   "g.pdf",
		UploadedBy: 1,
	}

	_, err := r.Reconcile(context.Background(), in)
	require.NoError(t, err)
	first := records.records[0]

	_, err = r.Reconcile(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, records.records[0].StatusAtGP)
	assert.Equal(t, first.VolumeNo, records.records[0].VolumeNo)
}

func TestReconcile_EmptyText(t *testing.T) {
	_, err := newTestReconciler(&fakeCourts{}, newFakeRecords(), &fakeSink{}).Reconcile(context.Background(), gazette.ScanInput{
		Text:       "   ",
		UploadedBy: 1,
	})
	assert.ErrorIs(t, err, gazette.ErrNoUpload)
}

func TestReconcile_NoUser(t *testing.T) {
	_, err := newTestReconciler(&fakeCourts{}, newFakeRecords(), &fakeSink{}).Reconcile(context.Background(), gazette.ScanInput{
		Text: "CAUSE NO. 1 OF 2024 estate of JANE WANJIRU, deceased",
	})
	assert.ErrorIs(t, err, gazette.ErrNoUser)
}

// A gazette insert failure surfaces as a PersistError, but the record
// mutations issued before it stay committed.
func TestReconcile_GazettePersistFailure(t *testing.T) {
	records := newFakeRecords(record(9, "jane wanjiru"))
	sink := &fakeSink{failGazette: true}

	_, err := newTestReconciler(&fakeCourts{}, records, sink).Reconcile(context.Background(), gazette.ScanInput{
		Text:       "CAUSE NO. 1 OF 2024 estate of JANE WANJIRU, deceased",
		FileName:   "g.pdf",
		UploadedBy: 1,
	})
	var pe *gazette.PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "gazette", pe.Entity)

	assert.Contains(t, records.published, uint(9))
	assert.Empty(t, sink.logs)
}

// An unresolved court leaves the case with a nil station and does not block
// name matching.
func TestReconcile_UnresolvedCourt(t *testing.T) {
	records := newFakeRecords(record(2, "jane wanjiru"))
	sink := &fakeSink{}

	report, err := newTestReconciler(&fakeCourts{}, records, sink).Reconcile(context.Background(), gazette.ScanInput{
		Text: "IN THE HIGH COURT OF KENYA AT GARISSA " +
			"CAUSE NO. 1 OF 2024 estate of JANE WANJIRU, deceased",
		FileName:   "g.pdf",
		UploadedBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.PublishedCount)
	require.Len(t, sink.gazettes[0].Cases, 1)
	assert.Nil(t, sink.gazettes[0].Cases[0].CourtStationID)
	assert.Equal(t, "GARISSA", sink.gazettes[0].Cases[0].CourtName)
}
