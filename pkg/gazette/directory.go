package gazette

import (
	"context"
	"time"

	"github.com/KeithOmondi/principle-registry/pkg/models"
)

// CourtDirectory is the read-only canonical court directory. FindByName
// returns (nil, nil) when no station matches the fragment; when several
// match, the first in directory order is returned.
type CourtDirectory interface {
	FindByName(ctx context.Context, fragment string) (*models.Court, error)
}

// PublicationUpdate carries the gazette-wide values applied to a matched
// record.
type PublicationUpdate struct {
	VolumeNo      string
	DatePublished time.Time
}

// RecordDirectory is the persisted record store the pipeline reconciles
// against. FindByDeceasedName matches on exact, case-insensitive equality
// of the normalized deceased name. MarkPublished sets statusAtGP to
// Published; it never reverts a published record.
type RecordDirectory interface {
	FindByDeceasedName(ctx context.Context, name string) ([]models.Record, error)
	MarkPublished(ctx context.Context, recordID uint, upd PublicationUpdate) error
}

// ScanSink persists the scan's outputs.
type ScanSink interface {
	SaveGazette(ctx context.Context, g *models.Gazette) error
	SaveScanLog(ctx context.Context, l *models.ScanLog) error
}
