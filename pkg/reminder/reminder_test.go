package reminder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/KeithOmondi/principle-registry/pkg/models"
	"github.com/KeithOmondi/principle-registry/pkg/reminder"
)

type fakeCourts map[uint]*models.Court

func (f fakeCourts) Get(_ context.Context, id uint) (*models.Court, error) {
	if c, ok := f[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePending map[uint][]models.Record

func (f fakePending) PendingByCourt(context.Context) (map[uint][]models.Record, error) {
	return f, nil
}

type recordingNotifier struct {
	reminded map[string]int
	fail     map[string]bool
}

func (r *recordingNotifier) PublicationNotice(models.Court, *models.Gazette, []models.GazetteCase) error {
	return nil
}

func (r *recordingNotifier) PendingReminder(court models.Court, records []models.Record) error {
	if r.fail[court.Name] {
		return errors.New("send failed")
	}
	r.reminded[court.Name] = len(records)
	return nil
}

func court(id uint, name string) *models.Court {
	c := &models.Court{Name: name}
	c.ID = id
	return c
}

func TestRun(t *testing.T) {
	n := &recordingNotifier{reminded: map[string]int{}}
	job := reminder.New(
		fakeCourts{1: court(1, "NAIROBI"), 2: court(2, "KISUMU")},
		fakePending{
			1: {{CauseNo: "1/2024"}, {CauseNo: "2/2024"}},
			2: {{CauseNo: "3/2024"}},
		},
		n,
	)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, map[string]int{"NAIROBI": 2, "KISUMU": 1}, n.reminded)
}

// A failed send or an unknown court never blocks the other stations.
func TestRun_PartialFailure(t *testing.T) {
	n := &recordingNotifier{
		reminded: map[string]int{},
		fail:     map[string]bool{"NAIROBI": true},
	}
	job := reminder.New(
		fakeCourts{1: court(1, "NAIROBI"), 2: court(2, "KISUMU")},
		fakePending{
			1: {{CauseNo: "1/2024"}},
			2: {{CauseNo: "2/2024"}},
			9: {{CauseNo: "3/2024"}},
		},
		n,
	)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, map[string]int{"KISUMU": 1}, n.reminded)
}
