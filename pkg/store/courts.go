package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/KeithOmondi/principle-registry/pkg/gazette"
	"github.com/KeithOmondi/principle-registry/pkg/models"
)

type Courts struct {
	db *gorm.DB
}

func NewCourts(db *gorm.DB) *Courts {
	return &Courts{db: db}
}

var _ gazette.CourtDirectory = (*Courts)(nil)

// FindByName does a case-insensitive substring lookup against the canonical
// station names. Ties go to the first row in directory order. A miss is
// (nil, nil), not an error.
func (s *Courts) FindByName(ctx context.Context, fragment string) (*models.Court, error) {
	var court models.Court
	err := s.db.WithContext(ctx).
		Where("UPPER(name) LIKE ?", "%"+strings.ToUpper(strings.TrimSpace(fragment))+"%").
		Order("id").
		First(&court).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &court, nil
}

func (s *Courts) List(ctx context.Context) ([]models.Court, error) {
	var courts []models.Court
	err := s.db.WithContext(ctx).Order("name").Find(&courts).Error
	return courts, err
}

func (s *Courts) Get(ctx context.Context, id uint) (*models.Court, error) {
	var court models.Court
	if err := s.db.WithContext(ctx).First(&court, id).Error; err != nil {
		return nil, err
	}
	return &court, nil
}

// Seed inserts stations that are not present yet, keyed by name.
func (s *Courts) Seed(ctx context.Context, courts []models.Court) error {
	for _, c := range courts {
		c.Name = strings.ToUpper(c.Name)
		var existing models.Court
		err := s.db.WithContext(ctx).Where("name = ?", c.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = s.db.WithContext(ctx).Create(&c).Error
		}
		if err != nil {
			return err
		}
	}
	return nil
}
