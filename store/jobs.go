package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/cppla/wemake/models"
)

// JobFilter narrows ListJobs. Empty strings mean any value.
type JobFilter struct {
	Limit    int
	Location string
	Type     string
	Salary   string
}

// ListJobs returns the newest jobs matching f.
func (s *Store) ListJobs(ctx context.Context, f JobFilter) ([]models.Job, error) {
	if f.Location != "" && !lo.Contains(models.JobLocations, f.Location) {
		return nil, fmt.Errorf("%w: location %q", ErrInvalidFilter, f.Location)
	}
	if f.Type != "" && !lo.Contains(models.JobTypes, f.Type) {
		return nil, fmt.Errorf("%w: type %q", ErrInvalidFilter, f.Type)
	}
	if f.Salary != "" && !lo.Contains(models.SalaryRanges, f.Salary) {
		return nil, fmt.Errorf("%w: salary %q", ErrInvalidFilter, f.Salary)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := s.db.WithContext(ctx).Model(&models.Job{})
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.Type != "" {
		q = q.Where("job_type = ?", f.Type)
	}
	if f.Salary != "" {
		q = q.Where("salary_range = ?", f.Salary)
	}
	jobs := []models.Job{}
	err := q.Order("created_at DESC, job_id DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// GetJob loads one job.
func (s *Store) GetJob(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).Where("job_id = ?", id).Take(&job).Error
	return job, translate(err)
}

// CreateJob validates and stores a job posting.
func (s *Store) CreateJob(ctx context.Context, job models.Job) (models.Job, error) {
	job.ID = 0
	for _, f := range []*string{
		&job.Position, &job.Overview, &job.Responsibilities, &job.Qualifications,
		&job.Benefits, &job.Skills, &job.CompanyName, &job.CompanyLogo,
		&job.CompanyLocation, &job.ApplyURL,
	} {
		*f = strings.TrimSpace(*f)
		if *f == "" {
			return models.Job{}, fmt.Errorf("%w: every job field is required", ErrInvalidInput)
		}
	}
	switch {
	case !lo.Contains(models.JobTypes, job.JobType):
		return models.Job{}, fmt.Errorf("%w: job type %q", ErrInvalidInput, job.JobType)
	case !lo.Contains(models.JobLocations, job.Location):
		return models.Job{}, fmt.Errorf("%w: location %q", ErrInvalidInput, job.Location)
	case !lo.Contains(models.SalaryRanges, job.SalaryRange):
		return models.Job{}, fmt.Errorf("%w: salary range %q", ErrInvalidInput, job.SalaryRange)
	case !validURL(job.ApplyURL) || !validURL(job.CompanyLogo):
		return models.Job{}, fmt.Errorf("%w: apply url and company logo must be http(s) urls", ErrInvalidInput)
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return models.Job{}, err
	}
	return job, nil
}
