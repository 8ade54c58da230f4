package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/KeithOmondi/principle-registry/pkg/gazette"
	"github.com/KeithOmondi/principle-registry/pkg/models"
)

type Records struct {
	db *gorm.DB
}

func NewRecords(db *gorm.DB) *Records {
	return &Records{db: db}
}

var _ gazette.RecordDirectory = (*Records)(nil)

// FindByDeceasedName matches on exact, case-insensitive equality of the
// normalized deceased name, in insertion order.
func (s *Records) FindByDeceasedName(ctx context.Context, name string) ([]models.Record, error) {
	var records []models.Record
	err := s.db.WithContext(ctx).
		Where("LOWER(name_of_deceased) = ?", strings.ToLower(strings.TrimSpace(name))).
		Order("id").
		Find(&records).Error
	return records, err
}

// MarkPublished advances a record to Published and stamps the gazette-wide
// volume and date. It never moves a record back to Pending.
func (s *Records) MarkPublished(ctx context.Context, recordID uint, upd gazette.PublicationUpdate) error {
	return s.db.WithContext(ctx).
		Model(&models.Record{}).
		Where("id = ?", recordID).
		Updates(map[string]any{
			"status_at_gp":   models.StatusPublished,
			"volume_no":      upd.VolumeNo,
			"date_published": upd.DatePublished,
		}).Error
}

func (s *Records) Create(ctx context.Context, r *models.Record) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Records) Get(ctx context.Context, id uint) (*models.Record, error) {
	var r models.Record
	err := s.db.WithContext(ctx).Preload("CourtStation").First(&r, id).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Records) Update(ctx context.Context, r *models.Record) error {
	return s.db.WithContext(ctx).Save(r).Error
}

func (s *Records) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Record{}, id).Error
}

// SetCompliance records the Form 60 approval decision.
func (s *Records) SetCompliance(ctx context.Context, id uint, status models.ComplianceStatus) error {
	if status != models.ComplianceApproved && status != models.ComplianceRejected {
		return fmt.Errorf("invalid compliance status %q", status)
	}
	return s.db.WithContext(ctx).
		Model(&models.Record{}).
		Where("id = ?", id).
		Update("form60", status).Error
}

// ListFilter narrows List; zero values mean "any".
type ListFilter struct {
	StatusAtGP     models.GPStatus
	Form60         models.ComplianceStatus
	CourtStationID uint
	Search         string
	Page           int
	PerPage        int
}

// List returns one page of records plus the unpaged total.
func (s *Records) List(ctx context.Context, f ListFilter) ([]models.Record, int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.Record{})
	if f.StatusAtGP != "" {
		tx = tx.Where("status_at_gp = ?", f.StatusAtGP)
	}
	if f.Form60 != "" {
		tx = tx.Where("form60 = ?", f.Form60)
	}
	if f.CourtStationID != 0 {
		tx = tx.Where("court_station_id = ?", f.CourtStationID)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		tx = tx.Where("LOWER(name_of_deceased) LIKE ? OR LOWER(cause_no) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	var records []models.Record
	err := tx.Preload("CourtStation").
		Order("id desc").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&records).Error
	return records, total, err
}

// PendingByCourt groups the still-unpublished approved records per court
// station for the reminder job.
func (s *Records) PendingByCourt(ctx context.Context) (map[uint][]models.Record, error) {
	var records []models.Record
	err := s.db.WithContext(ctx).
		Where("status_at_gp = ? AND form60 = ? AND court_station_id IS NOT NULL",
			models.StatusPending, models.ComplianceApproved).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	grouped := map[uint][]models.Record{}
	for _, r := range records {
		grouped[*r.CourtStationID] = append(grouped[*r.CourtStationID], r)
	}
	return grouped, nil
}

// CountByStatus feeds the dashboard aggregation.
func (s *Records) CountByStatus(ctx context.Context) (total, pending, published int64, err error) {
	tx := s.db.WithContext(ctx).Model(&models.Record{})
	if err = tx.Count(&total).Error; err != nil {
		return
	}
	if err = s.db.WithContext(ctx).Model(&models.Record{}).
		Where("status_at_gp = ?", models.StatusPending).Count(&pending).Error; err != nil {
		return
	}
	err = s.db.WithContext(ctx).Model(&models.Record{}).
		Where("status_at_gp = ?", models.StatusPublished).Count(&published).Error
	return
}
