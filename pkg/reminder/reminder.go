// Package reminder runs the scheduled check for approved records that have
// not yet been published in any gazette, nudging their court stations.
package reminder

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/KeithOmondi/principle-registry/pkg/mailer"
	"github.com/KeithOmondi/principle-registry/pkg/models"
)

var log = logrus.StandardLogger().WithField("package", "reminder")

type CourtGetter interface {
	Get(ctx context.Context, id uint) (*models.Court, error)
}

type PendingLister interface {
	PendingByCourt(ctx context.Context) (map[uint][]models.Record, error)
}

type Job struct {
	courts   CourtGetter
	records  PendingLister
	notifier mailer.Notifier
}

func New(courts CourtGetter, records PendingLister, notifier mailer.Notifier) *Job {
	return &Job{courts: courts, records: records, notifier: notifier}
}

// Schedule registers the job on c with a cron expression, e.g.
// "0 8 * * 1" for Monday mornings.
func (j *Job) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		if err := j.Run(context.Background()); err != nil {
			log.Errorf("reminder run: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling reminder: %w", err)
	}
	return nil
}

// Run sends one reminder per court station with pending approved records.
// A failed send is logged and does not block the other stations.
func (j *Job) Run(ctx context.Context) error {
	pending, err := j.records.PendingByCourt(ctx)
	if err != nil {
		return fmt.Errorf("listing pending records: %w", err)
	}

	for courtID, records := range pending {
		court, err := j.courts.Get(ctx, courtID)
		if err != nil {
			log.Warnf("court %d lookup: %v", courtID, err)
			continue
		}
		if err := j.notifier.PendingReminder(*court, records); err != nil {
			log.Errorf("reminder to %s: %v", court.Name, err)
			continue
		}
		log.Infof("reminded %s about %d pending records", court.Name, len(records))
	}
	return nil
}
