package models

import "time"

// Topic is a named, slugged category that partitions community posts.
type Topic struct {
	ID        uint      `gorm:"column:topic_id;primaryKey" json:"topic_id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Slug      string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	Posts     []Post    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
