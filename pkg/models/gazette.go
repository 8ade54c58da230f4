package models

import (
	"time"

	"gorm.io/gorm"
)

// Gazette is the persisted result of one successful scan: what the gazette
// document asserts, whether or not the registry agreed with it.
type Gazette struct {
	gorm.Model
	VolumeNo       string        `json:"volumeNo"`
	DatePublished  time.Time     `json:"datePublished"`
	FileName       string        `json:"fileName"`
	ScanId         string        `gorm:"index" json:"scanId"`
	TotalRecords   int           `json:"totalRecords"`
	PublishedCount int           `json:"publishedCount"`
	UploadedByID   uint          `json:"uploadedBy"`
	Cases          []GazetteCase `gorm:"foreignKey:GazetteID" json:"cases"`
}

// GazetteCase is one cause entry extracted from the scanned text. It keeps
// the extraction-assigned Published status even when no backing Record was
// found.
type GazetteCase struct {
	gorm.Model
	GazetteID      uint     `gorm:"index" json:"-"`
	CauseNo        string   `json:"causeNo"`
	CourtName      string   `json:"courtName"`
	CourtStationID *uint    `json:"courtStationId,omitempty"`
	NameOfDeceased string   `json:"nameOfDeceased"`
	Status         GPStatus `json:"status"`
	Matched        bool     `json:"matched"`
}
