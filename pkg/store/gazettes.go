package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/KeithOmondi/principle-registry/pkg/gazette"
	"github.com/KeithOmondi/principle-registry/pkg/models"
)

// Gazettes persists scan outputs. It is the pipeline's ScanSink.
type Gazettes struct {
	db *gorm.DB
}

func NewGazettes(db *gorm.DB) *Gazettes {
	return &Gazettes{db: db}
}

var _ gazette.ScanSink = (*Gazettes)(nil)

// SaveGazette writes the gazette and its embedded cases in one create.
func (s *Gazettes) SaveGazette(ctx context.Context, g *models.Gazette) error {
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *Gazettes) SaveScanLog(ctx context.Context, l *models.ScanLog) error {
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *Gazettes) List(ctx context.Context) ([]models.Gazette, error) {
	var gazettes []models.Gazette
	err := s.db.WithContext(ctx).Order("id desc").Find(&gazettes).Error
	return gazettes, err
}

func (s *Gazettes) Get(ctx context.Context, id uint) (*models.Gazette, error) {
	var g models.Gazette
	err := s.db.WithContext(ctx).Preload("Cases").First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Gazettes) ListScanLogs(ctx context.Context) ([]models.ScanLog, error) {
	var logs []models.ScanLog
	err := s.db.WithContext(ctx).Order("id desc").Find(&logs).Error
	return logs, err
}

func (s *Gazettes) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Gazette{}).Count(&n).Error
	return n, err
}
