package models

import "time"

// PostReply is one row of the reply table. A row carries either PostID (a top-level reply)
// or ParentID (a reply to a top-level reply), never both. The store decides which one at insert time.
type PostReply struct {
	ID        uint        `gorm:"column:post_reply_id;primaryKey" json:"id"`
	PostID    *uint       `gorm:"index" json:"post_id"`
	ParentID  *uint       `gorm:"index" json:"parent_id"`
	ProfileID uint        `gorm:"index;not null" json:"profile_id"`
	Reply     string      `gorm:"type:text;not null" json:"reply"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Profile   Profile     `json:"author"`
	Children  []PostReply `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"replies,omitempty"`
}

// IsTopLevel reports whether the reply hangs directly off a post.
func (r PostReply) IsTopLevel() bool {
	return r.ParentID == nil && r.PostID != nil
}
