package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile roles a member can pick on their profile.
const (
	RoleDeveloper      = "developer"
	RoleDesigner       = "designer"
	RoleMarketer       = "marketer"
	RoleFounder        = "founder"
	RoleProductManager = "product-manager"
)

// ProfileRoles lists every accepted Profile.Role value.
var ProfileRoles = []string{RoleDeveloper, RoleDesigner, RoleMarketer, RoleFounder, RoleProductManager}

// Profile is the application's member record. Passwords are stored as bcrypt hashes only and
// are empty for members that only sign in through a social provider or a one-time code.
type Profile struct {
	ID           uint        `gorm:"column:profile_id;primaryKey" json:"profile_id"`
	Name         string      `gorm:"size:64;not null" json:"name"`
	Username     string      `gorm:"size:32;not null;uniqueIndex" json:"username"`
	Email        *string     `gorm:"size:255;uniqueIndex" json:"-"`
	PasswordHash string      `gorm:"size:255" json:"-"`
	Provider     string      `gorm:"size:32" json:"-"`
	ProviderID   string      `gorm:"size:255;index" json:"-"`
	Avatar       string      `gorm:"size:512" json:"avatar"`
	Role         string      `gorm:"size:32;not null;default:developer" json:"role"`
	Headline     string      `gorm:"size:255" json:"headline"`
	Bio          string      `gorm:"type:text" json:"bio"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Posts        []Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Replies      []PostReply `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Products     []Product   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate fills the role when none was given.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.Role == "" {
		p.Role = RoleDeveloper
	}
	return nil
}

// EmailValue returns the email or an empty string.
func (p Profile) EmailValue() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}
