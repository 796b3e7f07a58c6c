package llm

import (
	"fmt"

	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

const LaborSystemPrompt = `You are a service writer at a vehicle repair shop.
Estimate the billable labor hours for the job described by the user.
Answer with JSON only, in the form {"hours": <number>}.
If the job cannot be estimated, answer {"hours": null}.`

const InspectionSystemPrompt = `You build vehicle inspection checklists.
Answer with JSON only, in the form
{"categories": [{"title": "<category>", "items": ["<item>", ...]}]}.
Keep item names short. Do not include statuses or commentary.`

// LaborUserPrompt formats a job for the labor estimate prompt.
func LaborUserPrompt(complaint string, jobType models.JobType) string {
	return fmt.Sprintf("Job type: %s\nComplaint: %s", jobType, complaint)
}
