package convert

import (
	"github.com/provide-io/mmconvert/pkg/mmsave/format"
)

// Status is the outcome of one slot or input file.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result records what happened to one slot or input file.
type Result struct {
	Name     string // slot key or input file name
	Index    int    // slot index, -1 when none was assigned
	Category format.SlotCategory
	Output   string // written container path, empty otherwise
	Size     int64
	Status   Status
	Reason   string
}

// Summary holds the slot counts of a containers-to-registry run and the
// rounded values written to the registry.
type Summary struct {
	SceneCount   int
	AmbientCount int
	SceneMax     int
	AmbientMax   int
}

// Report collects the results of a run in processing order.
type Report struct {
	Results  []Result
	Summary  Summary
	Registry string // registry written by ContainersToRegistry
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Count returns the number of results with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Summarize rounds the slot counts up to the configured units; the ambient
// value never drops below ambientMin.
func Summarize(scenes, ambients, sceneRound, ambientRound, ambientMin int) Summary {
	return Summary{
		SceneCount:   scenes,
		AmbientCount: ambients,
		SceneMax:     roundUp(scenes, sceneRound),
		AmbientMax:   max(roundUp(ambients, ambientRound), ambientMin),
	}
}

func roundUp(n, unit int) int {
	if unit <= 0 {
		return n
	}
	return (n + unit - 1) / unit * unit
}
