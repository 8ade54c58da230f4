package models

import "gorm.io/gorm"

// ScanLog is the append-only audit trail entry for one gazette-scan
// attempt.
type ScanLog struct {
	gorm.Model
	FileName       string `json:"fileName"`
	TotalRecords   int    `json:"totalRecords"`
	PublishedCount int    `json:"publishedCount"`
	Remarks        string `json:"remarks"`
	UploadedByID   uint   `json:"uploadedBy"`
}
