package models

import (
	"time"

	"gorm.io/gorm"
)

// SharedReport is a persisted rewind report. The payload is the full JSON
// response envelope, so a share link replays exactly what the original
// request returned.
type SharedReport struct {
	gorm.Model
	Username    string `gorm:"index:idx_shared_reports_user_year"`
	Year        int    `gorm:"index:idx_shared_reports_user_year"`
	ShareToken  string `gorm:"uniqueIndex"`
	Payload     []byte
	GeneratedAt time.Time
}
