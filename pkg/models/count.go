package models

import (
	"strconv"
	"time"
)

// JobCount is the outcome of a successful scrape. Found is false when the site
// answered well-formed content that simply did not show a count.
type JobCount struct {
	Value uint64 `json:"value"`
	Found bool   `json:"found"`
}

// CountOf returns a present count
func CountOf(n uint64) JobCount {
	return JobCount{Value: n, Found: true}
}

// NoCount is the absent count
var NoCount = JobCount{}

// String renders the count, or "None found" when absent
func (c JobCount) String() string {
	if !c.Found {
		return "None found"
	}
	return strconv.FormatUint(c.Value, 10)
}

// ScrapeResult records a single scrape of one title against one site
type ScrapeResult struct {
	Site     string        `json:"site"`
	Title    string        `json:"title"`
	Count    JobCount      `json:"count"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the scrape ended in an error
func (r ScrapeResult) Failed() bool {
	return r.Err != nil
}

// Summary aggregates the results of a run
type Summary struct {
	Titles   int            `json:"titles"`
	Found    int            `json:"found"`
	Absent   int            `json:"absent"`
	Failed   int            `json:"failed"`
	Failures map[string]int `json:"failures,omitempty"` // keyed by error kind
	Elapsed  time.Duration  `json:"elapsed"`
}

// Record folds a result into the summary; kind names the failure class when r failed
func (s *Summary) Record(r ScrapeResult, kind string) {
	switch {
	case r.Failed():
		s.Failed++
		if s.Failures == nil {
			s.Failures = make(map[string]int)
		}
		s.Failures[kind]++
	case r.Count.Found:
		s.Found++
	default:
		s.Absent++
	}
}
