// Package joborder classifies job inputs into priority tiers and orders them.
package joborder

import (
	"sort"
	"strings"

	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// RankUnknown is the tier assigned to job types outside the known set.
const RankUnknown = 5

var ranks = map[models.JobType]int{
	models.JobTypeDiagnosis:      1,
	models.JobTypeInspectionFail: 2,
	models.JobTypeMaintenance:    3,
	models.JobTypeRepair:         4,
}

// Rank returns the priority tier of a job type. Lower runs first.
func Rank(t models.JobType) int {
	if r, ok := ranks[t]; ok {
		return r
	}
	return RankUnknown
}

// Sort returns a new slice ordered by ascending Rank. Jobs of equal rank keep
// their input order. The input slice is not modified.
func Sort(jobs []models.JobInput) []models.JobInput {
	out := make([]models.JobInput, len(jobs))
	copy(out, jobs)
	sort.SliceStable(out, func(i, j int) bool {
		return Rank(out[i].JobType) < Rank(out[j].JobType)
	})
	return out
}

// ParseJobType normalizes free-form input ("Inspection Fail", "inspection_fail")
// to a JobType. Unrecognized values are returned lower-cased, not rejected.
func ParseJobType(s string) models.JobType {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	return models.JobType(s)
}

// Validate checks the required fields of a job. An unknown but non-empty job
// type is accepted; it only affects ordering.
func Validate(job models.JobInput) error {
	if strings.TrimSpace(job.Complaint) == "" {
		return apperr.Validation("validate job", "complaint", "is required")
	}
	if job.JobType == "" {
		return apperr.Validation("validate job", "job_type", "is required")
	}
	return nil
}
