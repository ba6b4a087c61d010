package models

import "time"

// ProductStages lists the accepted Team.ProductStage values.
var ProductStages = []string{"idea", "prototype", "mvp", "product"}

// Team is a "looking for teammates" listing led by one profile.
type Team struct {
	ID                 uint      `gorm:"column:team_id;primaryKey" json:"team_id"`
	ProductName        string    `gorm:"size:64;not null" json:"product_name"`
	TeamSize           int       `gorm:"not null;check:team_size_check,team_size BETWEEN 1 AND 100" json:"team_size"`
	EquitySplit        int       `gorm:"not null;check:equity_split_check,equity_split BETWEEN 1 AND 100" json:"equity_split"`
	ProductStage       string    `gorm:"size:16;not null" json:"product_stage"`
	Roles              string    `gorm:"type:text;not null" json:"roles"`
	ProductDescription string    `gorm:"size:800;not null" json:"product_description"`
	TeamLeaderID       uint      `gorm:"index;not null" json:"team_leader_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	TeamLeader         Profile   `gorm:"foreignKey:TeamLeaderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"team_leader"`
}

// TableName keeps the singular table name.
func (Team) TableName() string { return "team" }
