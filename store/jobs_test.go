package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/wemake/models"
)

func TestListJobsRejectsUnknownFilters(t *testing.T) {
	s, mock := newMockStore(t)
	for name, f := range map[string]JobFilter{
		"location": {Location: "moon"},
		"type":     {Type: "gig"},
		"salary":   {Salary: "$1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.ListJobs(context.Background(), f)
			assert.ErrorIs(t, err, ErrInvalidFilter)
		})
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListJobsAppliesFilters(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `jobs` WHERE location = \\? AND job_type = \\? AND salary_range = \\? ORDER BY created_at DESC, job_id DESC LIMIT (\\?|5)").
		WillReturnRows(sqlmock.NewRows([]string{"job_id", "position", "location", "job_type", "salary_range"}).
			AddRow(1, "Backend engineer", "remote", "full-time", "$0 - $50,000"))

	jobs, err := s.ListJobs(context.Background(), JobFilter{
		Limit:    5,
		Location: "remote",
		Type:     "full-time",
		Salary:   "$0 - $50,000",
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend engineer", jobs[0].Position)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListJobsWithoutFilters(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `jobs` ORDER BY created_at DESC, job_id DESC LIMIT (\\?|20)").
		WillReturnRows(sqlmock.NewRows([]string{"job_id"}))

	jobs, err := s.ListJobs(context.Background(), JobFilter{Limit: 500})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func validJob() models.Job {
	return models.Job{
		Position:         "Backend engineer",
		Overview:         "Build the API",
		Responsibilities: "Own the store layer",
		Qualifications:   "Go",
		Benefits:         "Remote",
		Skills:           "Go, SQL",
		CompanyName:      "wemake",
		CompanyLogo:      "https://wemake.dev/logo.png",
		CompanyLocation:  "Seoul",
		ApplyURL:         "https://wemake.dev/jobs/1",
		JobType:          "full-time",
		Location:         "remote",
		SalaryRange:      "$0 - $50,000",
	}
}

func TestCreateJobValidation(t *testing.T) {
	s, mock := newMockStore(t)
	cases := map[string]func(*models.Job){
		"blank position": func(j *models.Job) { j.Position = "  " },
		"blank benefits": func(j *models.Job) { j.Benefits = "" },
		"job type":       func(j *models.Job) { j.JobType = "contract" },
		"location":       func(j *models.Job) { j.Location = "office" },
		"salary":         func(j *models.Job) { j.SalaryRange = "lots" },
		"apply scheme":   func(j *models.Job) { j.ApplyURL = "ftp://wemake.dev/apply" },
		"relative logo":  func(j *models.Job) { j.CompanyLogo = "/logo.png" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			job := validJob()
			mutate(&job)
			_, err := s.CreateJob(context.Background(), job)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJobIgnoresClientID(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO `jobs`").
		WillReturnResult(sqlmock.NewResult(12, 1))

	job := validJob()
	job.ID = 99
	got, err := s.CreateJob(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, uint(12), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
