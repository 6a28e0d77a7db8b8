package report

import (
	"sort"
	"time"

	"github.com/quattor/release-helper/pkg/model"
)

// Burndown is the chart input for one named milestone: the number of
// things to burn and the sorted close timestamps of the ones already
// burned.
type Burndown struct {
	Milestone string   `json:"milestone"`
	Due       string   `json:"due,omitempty"`
	ToBurn    int      `json:"to_burn"`
	Burned    []string `json:"burned"`
}

// BuildBurndown computes the burndown series per named milestone. The
// synthetic Backlog and Legacy buckets carry no burndown data.
func BuildBurndown(result *model.CollectResult) map[string]Burndown {
	series := map[string]Burndown{}

	for name := range result.Milestones {
		milestones := model.SortBuckets([]string{name}, false)
		if len(milestones) == 0 {
			continue
		}

		bd := Burndown{Milestone: name, Burned: []string{}}

		for _, repo := range repoNames(result.Milestones[name]) {
			data := result.Milestones[name][repo]
			bd.ToBurn += len(data.Things)

			if bd.Due == "" && data.Due != nil {
				bd.Due = data.Due.Format("2006-01-02")
			}

			for _, thing := range data.Things {
				if thing.Closed != nil {
					bd.Burned = append(bd.Burned, thing.Closed.UTC().Format(time.RFC3339))
				}
			}
		}

		sort.Strings(bd.Burned)
		series[name] = bd
	}

	return series
}
