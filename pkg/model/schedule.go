package model

import "time"

// ScheduleEntry holds the planned dates for one release: development
// start, release-candidate cut, and the target (due) date. The target
// overrides the calendar-derived due date of the matching milestone.
type ScheduleEntry struct {
	Start  time.Time `json:"start" yaml:"start"`
	RCs    time.Time `json:"rcs" yaml:"rcs"`
	Target time.Time `json:"target" yaml:"target"`
}

// Schedule maps milestone titles to their planned release dates.
type Schedule map[string]ScheduleEntry

// Entry returns the entry for a milestone title, or nil when the title is
// not scheduled.
func (s Schedule) Entry(title string) *ScheduleEntry {
	if entry, ok := s[title]; ok {
		return &entry
	}
	return nil
}

// Shift returns a copy of the entry with start, rcs and target each moved
// forward by the given number of months.
func (e ScheduleEntry) Shift(months int) ScheduleEntry {
	return ScheduleEntry{
		Start:  AddMonths(e.Start, months),
		RCs:    AddMonths(e.RCs, months),
		Target: AddMonths(e.Target, months),
	}
}
