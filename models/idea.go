package models

import "time"

// GptIdea is a generated startup idea that a member can claim once.
type GptIdea struct {
	ID        uint          `gorm:"column:gpt_idea_id;primaryKey" json:"gpt_idea_id"`
	Idea      string        `gorm:"type:text;not null" json:"idea"`
	Views     int64         `gorm:"not null;default:0" json:"views"`
	ClaimedAt *time.Time    `json:"claimed_at"`
	ClaimedBy *uint         `gorm:"index" json:"claimed_by"`
	CreatedAt time.Time     `json:"created_at"`
	Claimer   *Profile      `gorm:"foreignKey:ClaimedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Likes     []GptIdeaLike `gorm:"foreignKey:GptIdeaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// GptIdeaLike records one profile liking one idea.
type GptIdeaLike struct {
	GptIdeaID uint      `gorm:"primaryKey;autoIncrement:false" json:"gpt_idea_id"`
	ProfileID uint      `gorm:"primaryKey;autoIncrement:false" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the plural table name used by the idea views.
func (GptIdeaLike) TableName() string { return "gpt_ideas_likes" }

// All returns every model in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&Profile{}, &Topic{}, &Post{}, &PostUpvote{}, &PostReply{},
		&Category{}, &Product{}, &ProductUpvote{}, &Review{},
		&Job{}, &Team{}, &GptIdea{}, &GptIdeaLike{},
	}
}
