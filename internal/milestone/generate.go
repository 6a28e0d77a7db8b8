package milestone

import (
	"sort"
	"time"

	"github.com/quattor/release-helper/pkg/model"
)

// GenerateCadence produces the upcoming milestone records on a fixed
// cadence. The month of today is advanced to the next multiple of
// intervalMonths; that anchor month itself is never emitted, the following
// count-1 milestones at intervalMonths spacing are.
func GenerateCadence(count, intervalMonths int, today time.Time) []Record {
	if count < 1 || intervalMonths < 1 {
		return nil
	}

	month := int(today.Month())
	for month%intervalMonths != 0 {
		month++
	}

	// time.Date normalizes a month beyond December into the next year.
	start := time.Date(today.Year(), time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	records := make([]Record, 0, count-1)
	for k := 1; k < count; k++ {
		next := model.AddMonths(start, k*intervalMonths)
		records = append(records, Record{
			ID: model.NewMilestoneID(next.Year(), int(next.Month())),
		})
	}

	return records
}

// FromSchedule produces one record per release-schedule entry, sorted
// ascending by target date. A schedule key that is not a valid milestone
// title is a *model.ParseError.
func FromSchedule(schedule model.Schedule) ([]Record, error) {
	records := make([]Record, 0, len(schedule))

	for title, entry := range schedule {
		id, err := model.ParseMilestoneTitle(title)
		if err != nil {
			return nil, err
		}
		e := entry
		records = append(records, Record{ID: id, Release: &e})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Release.Target.Before(records[j].Release.Target)
	})

	return records, nil
}
