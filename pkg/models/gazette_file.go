package models

import (
	"io"
	"time"
)

// GazetteFile is one uploaded gazette PDF held by the archive storage.
type GazetteFile struct {
	Reader   io.ReadSeeker
	ScanId   string
	FileName string
	Uploaded time.Time
}
