package models

import "time"

// Job types.
var JobTypes = []string{"full-time", "part-time", "remote", "internship", "freelance"}

// Job location types.
var JobLocations = []string{"remote", "in-person", "hybrid"}

// SalaryRanges is the fixed list of salary bands a job can advertise.
var SalaryRanges = []string{
	"$0 - $50,000",
	"$50,000 - $70,000",
	"$70,000 - $100,000",
	"$100,000 - $120,000",
	"$120,000 - $150,000",
	"$150,000 - $250,000",
	"$250,000+",
}

// Job is a job board posting.
type Job struct {
	ID               uint      `gorm:"column:job_id;primaryKey" json:"job_id"`
	Position         string    `gorm:"size:255;not null" json:"position"`
	Overview         string    `gorm:"type:text;not null" json:"overview"`
	Responsibilities string    `gorm:"type:text;not null" json:"responsibilities"`
	Qualifications   string    `gorm:"type:text;not null" json:"qualifications"`
	Benefits         string    `gorm:"type:text;not null" json:"benefits"`
	Skills           string    `gorm:"type:text;not null" json:"skills"`
	CompanyName      string    `gorm:"size:255;not null" json:"company_name"`
	CompanyLogo      string    `gorm:"size:1024;not null" json:"company_logo"`
	CompanyLocation  string    `gorm:"size:255;not null" json:"company_location"`
	ApplyURL         string    `gorm:"size:1024;not null" json:"apply_url"`
	JobType          string    `gorm:"size:32;not null;index" json:"job_type"`
	Location         string    `gorm:"size:32;not null;index" json:"location"`
	SalaryRange      string    `gorm:"size:32;not null;index" json:"salary_range"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
