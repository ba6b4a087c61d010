package models

import "time"

// Post is a community post written by a profile under a topic.
type Post struct {
	ID        uint         `gorm:"column:post_id;primaryKey" json:"post_id"`
	Title     string       `gorm:"size:255;not null" json:"title"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	TopicID   uint         `gorm:"index;not null" json:"topic_id"`
	ProfileID uint         `gorm:"index;not null" json:"profile_id"`
	CreatedAt time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Topic     Topic        `json:"topic"`
	Profile   Profile      `json:"author"`
	Upvotes   []PostUpvote `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Replies   []PostReply  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// PostUpvote records one profile upvoting one post.
type PostUpvote struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	ProfileID uint      `gorm:"primaryKey;autoIncrement:false" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}
