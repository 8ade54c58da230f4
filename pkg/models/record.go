package models

import (
	"time"

	"gorm.io/gorm"
)

// GPStatus is a record's publication status relative to the Government
// Printer. It only ever advances Pending -> Published.
type GPStatus string

const (
	StatusPending   GPStatus = "Pending"
	StatusPublished GPStatus = "Published"
)

// ComplianceStatus is the Form 60 approval decision on a record,
// independent of gazette publication.
type ComplianceStatus string

const (
	ComplianceWaiting  ComplianceStatus = "Pending"
	ComplianceApproved ComplianceStatus = "Approved"
	ComplianceRejected ComplianceStatus = "Rejected"
)

// Record is one deceased-estate cause file tracked by the registry.
type Record struct {
	gorm.Model
	CauseNo        string           `gorm:"index" json:"causeNo"`
	NameOfDeceased string           `gorm:"index;not null" json:"nameOfDeceased"`
	CourtStationID *uint            `json:"courtStationId,omitempty"`
	CourtStation   *Court           `gorm:"foreignKey:CourtStationID" json:"courtStation,omitempty"`
	Form60         ComplianceStatus `gorm:"default:Pending" json:"form60"`
	StatusAtGP     GPStatus         `gorm:"default:Pending" json:"statusAtGP"`
	VolumeNo       string           `json:"volumeNo"`
	DatePublished  *time.Time       `json:"datePublished,omitempty"`
}
