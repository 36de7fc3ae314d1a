package model

import "time"

// Summary aggregates the outcome of a whole batch run.
type Summary struct {
	RunID         string        `json:"runId"`
	Submitted     int           `json:"submitted"`
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
	TotalPages    int           `json:"totalPages"`
	TotalImages   int           `json:"totalImages"`
	TotalDuration time.Duration `json:"totalDuration"`
	Jobs          []*Job        `json:"jobs"`
}

// NewSummary builds a summary over the supplied terminal jobs.
func NewSummary(runID string, jobs []*Job) *Summary {
	ret := &Summary{RunID: runID, Submitted: len(jobs), Jobs: jobs}
	for _, job := range jobs {
		ret.TotalDuration += job.Duration()
		switch job.Status {
		case StatusSucceeded:
			ret.Succeeded++
			if job.Result != nil {
				ret.TotalPages += job.Result.Pages
				ret.TotalImages += job.Result.Images
			}
		case StatusFailed:
			ret.Failed++
		}
	}
	return ret
}
