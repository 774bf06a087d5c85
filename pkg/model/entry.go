package model

import "time"

// Entry is one (uri, label) candidate belonging to an Authority
type Entry struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	AuthorityID int64     `gorm:"column:local_authority_id;not null;index"`
	URI         string    `gorm:"column:uri"`
	Label       string    `gorm:"column:label"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Entry) TableName() string {
	return "local_authority_entries"
}

// SubjectEntry is a row of the subject fast-path table. LowerLabel is
// maintained by the ingestion pipeline, never by this module.
type SubjectEntry struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	URL        string `gorm:"column:url"`
	Label      string `gorm:"column:label"`
	LowerLabel string `gorm:"column:lower_label"`
}

func (SubjectEntry) TableName() string {
	return "subject_local_authority_entries"
}
