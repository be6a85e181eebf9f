package domain

import "time"

// FileResult is the outcome of one file in a batch.
type FileResult struct {
	Path string
	Date time.Time
	Err  error
}

func (r FileResult) OK() bool {
	return r.Err == nil
}

type BatchReport struct {
	Results   []FileResult
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

func (r BatchReport) Total() int {
	return r.Succeeded + r.Failed
}

func (r *BatchReport) Add(result FileResult) {
	r.Results = append(r.Results, result)
	if result.OK() {
		r.Succeeded++
	} else {
		r.Failed++
	}
}
