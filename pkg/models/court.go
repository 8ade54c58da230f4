package models

import (
	"strings"

	"gorm.io/gorm"
)

// Court is one station of the canonical court directory. Names are stored
// uppercase ("HIGH COURT AT NAIROBI" style station names use only the
// station part, e.g. "NAIROBI").
type Court struct {
	gorm.Model
	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	Level  string `json:"level"`
	Emails string `json:"emails"`
}

// ContactEmails splits the comma-separated contact list.
func (c Court) ContactEmails() []string {
	var out []string
	for _, e := range strings.Split(c.Emails, ",") {
		e = strings.TrimSpace(e)
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
