package model

import "time"

// Authority is a named controlled vocabulary holding harvested entries
type Authority struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Authority) TableName() string {
	return "local_authorities"
}
