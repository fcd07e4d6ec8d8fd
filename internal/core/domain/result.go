package domain

import "time"

// Classification is the derived label set for one repository. The engine
// treats it as opaque and simply forwards it to the results sink; only the
// classifier and the sink agree on field names.
type Classification map[string]string

// RunSummary reports the outcome of one engine run.
type RunSummary struct {
	Completed int
	Failed    int
	Elapsed   time.Duration
}
