package models

// JobType classifies a requested unit of work.
type JobType string

const (
	JobTypeDiagnosis      JobType = "diagnosis"
	JobTypeInspectionFail JobType = "inspection-fail"
	JobTypeMaintenance    JobType = "maintenance"
	JobTypeRepair         JobType = "repair"
)

// Known reports whether t is one of the four recognized job types.
func (t JobType) Known() bool {
	switch t {
	case JobTypeDiagnosis, JobTypeInspectionFail, JobTypeMaintenance, JobTypeRepair:
		return true
	}
	return false
}

// JobInput is a requested unit of work before it becomes a persisted line.
type JobInput struct {
	Complaint string  `json:"complaint"`
	JobType   JobType `json:"job_type"`
	Cause     *string `json:"cause,omitempty"`
}
