package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/models"
	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// JobController serves the job board.
type JobController struct {
	store JobStore
}

// NewJobController creates a JobController.
func NewJobController(s JobStore) *JobController {
	return &JobController{store: s}
}

// ListJobs returns the newest jobs, filtered by location, type and salary range.
func (j *JobController) ListJobs(ctx *gin.Context) {
	jobs, err := j.store.ListJobs(ctx.Request.Context(), store.JobFilter{
		Limit:    parseLimit(ctx.Query("limit"), 20),
		Location: strings.TrimSpace(ctx.Query("location")),
		Type:     strings.TrimSpace(ctx.Query("type")),
		Salary:   strings.TrimSpace(ctx.Query("salary")),
	})
	if err != nil {
		storeError(ctx, err, 50060, "failed to list jobs")
		return
	}
	utils.Success(ctx, gin.H{
		"items": jobs,
		"filters": gin.H{
			"types":     models.JobTypes,
			"locations": models.JobLocations,
			"salaries":  models.SalaryRanges,
		},
	})
}

// GetJob returns one job.
func (j *JobController) GetJob(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	job, err := j.store.GetJob(ctx.Request.Context(), id)
	if err != nil {
		storeError(ctx, err, 50061, "failed to load job")
		return
	}
	utils.Success(ctx, gin.H{"job": job})
}

// CreateJob posts a job.
func (j *JobController) CreateJob(ctx *gin.Context) {
	var req struct {
		Position         string `json:"position" binding:"required,max=40"`
		Overview         string `json:"overview" binding:"required,max=400"`
		Responsibilities string `json:"responsibilities" binding:"required,max=400"`
		Qualifications   string `json:"qualifications" binding:"required,max=400"`
		Benefits         string `json:"benefits" binding:"required,max=400"`
		Skills           string `json:"skills" binding:"required,max=400"`
		CompanyName      string `json:"company_name" binding:"required,max=40"`
		CompanyLogo      string `json:"company_logo" binding:"required"`
		CompanyLocation  string `json:"company_location" binding:"required,max=40"`
		ApplyURL         string `json:"apply_url" binding:"required"`
		JobType          string `json:"job_type" binding:"required"`
		Location         string `json:"location" binding:"required"`
		SalaryRange      string `json:"salary_range" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}
	if _, ok := requireProfile(ctx); !ok {
		return
	}
	job, err := j.store.CreateJob(ctx.Request.Context(), models.Job{
		Position:         utils.PlainText(req.Position),
		Overview:         utils.PlainText(req.Overview),
		Responsibilities: utils.PlainText(req.Responsibilities),
		Qualifications:   utils.PlainText(req.Qualifications),
		Benefits:         utils.PlainText(req.Benefits),
		Skills:           utils.PlainText(req.Skills),
		CompanyName:      utils.PlainText(req.CompanyName),
		CompanyLogo:      strings.TrimSpace(req.CompanyLogo),
		CompanyLocation:  utils.PlainText(req.CompanyLocation),
		ApplyURL:         strings.TrimSpace(req.ApplyURL),
		JobType:          req.JobType,
		Location:         req.Location,
		SalaryRange:      req.SalaryRange,
	})
	if err != nil {
		storeError(ctx, err, 50062, "failed to create job")
		return
	}
	utils.Success(ctx, gin.H{"job": job})
}
