package models

import "time"

// Product is a listing on the marketplace. Upvotes, Views and Reviews are denormalized counters
// kept in step with their source rows by the store.
type Product struct {
	ID          uint            `gorm:"column:product_id;primaryKey" json:"product_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Tagline     string          `gorm:"size:255;not null" json:"tagline"`
	Description string          `gorm:"type:text;not null" json:"description"`
	HowItWorks  string          `gorm:"type:text;not null" json:"how_it_works"`
	Icon        string          `gorm:"size:1024;not null" json:"icon"`
	URL         string          `gorm:"size:1024;not null" json:"url"`
	Upvotes     int64           `gorm:"not null;default:0;index" json:"upvotes"`
	Views       int64           `gorm:"not null;default:0" json:"views"`
	Reviews     int64           `gorm:"not null;default:0" json:"reviews"`
	ProfileID   uint            `gorm:"index;not null" json:"profile_id"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Profile     Profile         `json:"author"`
	Category    *Category       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	UpvoteRows  []ProductUpvote `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ReviewRows  []Review        `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Category groups products.
type Category struct {
	ID          uint      `gorm:"column:category_id;primaryKey" json:"category_id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductUpvote records one profile upvoting one product.
type ProductUpvote struct {
	ProductID uint      `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	ProfileID uint      `gorm:"primaryKey;autoIncrement:false" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is a rated product review. Rating is 1 to 5.
type Review struct {
	ID        uint      `gorm:"column:review_id;primaryKey" json:"review_id"`
	ProductID uint      `gorm:"index:idx_review_product_profile,unique;not null" json:"product_id"`
	ProfileID uint      `gorm:"index:idx_review_product_profile,unique;not null" json:"profile_id"`
	Rating    int       `gorm:"not null;check:rating_check,rating BETWEEN 1 AND 5" json:"rating"`
	Review    string    `gorm:"type:text;not null" json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Profile   Profile   `json:"author"`
}
