package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kiranshivaraju/shopfloor/internal/api/response"
	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/internal/joborder"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// jobRequest is a job as it arrives over the wire. job_type is free-form and
// normalized before use.
type jobRequest struct {
	Complaint string  `json:"complaint"`
	JobType   string  `json:"job_type"`
	Cause     *string `json:"cause,omitempty"`
}

type rankedJob struct {
	models.JobInput
	Rank int `json:"rank"`
}

func toJobs(in []jobRequest) []models.JobInput {
	jobs := make([]models.JobInput, len(in))
	for i, j := range in {
		jobs[i] = models.JobInput{
			Complaint: j.Complaint,
			JobType:   joborder.ParseJobType(j.JobType),
			Cause:     j.Cause,
		}
	}
	return jobs
}

// validateJobs names the offending index in errors, e.g. jobs[2].complaint.
func validateJobs(jobs []models.JobInput) error {
	for i, job := range jobs {
		if err := joborder.Validate(job); err != nil {
			var ae *apperr.Error
			if errors.As(err, &ae) {
				return apperr.Validation("sort jobs", fmt.Sprintf("jobs[%d].%s", i, ae.Field), ae.Msg)
			}
			return err
		}
	}
	return nil
}

// NewSortJobsHandler returns an http.HandlerFunc for POST /api/v1/jobs/sort.
// It orders jobs by priority tier without persisting anything. An empty list
// sorts to an empty list.
func NewSortJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Jobs []jobRequest `json:"jobs"`
		}
		if !decode(w, r, &req) {
			return
		}

		jobs := toJobs(req.Jobs)
		if err := validateJobs(jobs); err != nil {
			response.AppError(w, err)
			return
		}

		sorted := joborder.Sort(jobs)
		out := make([]rankedJob, len(sorted))
		for i, j := range sorted {
			out[i] = rankedJob{JobInput: j, Rank: joborder.Rank(j.JobType)}
		}
		response.JSON(w, map[string]any{"jobs": out})
	}
}
