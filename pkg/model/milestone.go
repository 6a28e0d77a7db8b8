package model

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Synthetic bucket names. Backlog holds recently created issues without a
// milestone, Legacy holds the older ones. They sort after all named
// milestones, Backlog first.
const (
	BucketBacklog = "Backlog"
	BucketLegacy  = "Legacy"
)

// MilestoneID identifies a calendar-bucketed release, e.g. "16.4" for
// April 2016 or "16.4.2" for its second point release. Point releases are
// manually managed and never auto-rescheduled.
type MilestoneID struct {
	Year  int  `json:"year"`
	Month int  `json:"month"`
	Point *int `json:"point,omitempty"`
}

// NewMilestoneID returns the milestone for a full 4-digit year and month.
// The point component is unset.
func NewMilestoneID(year, month int) MilestoneID {
	return MilestoneID{Year: year, Month: month}
}

// ParseMilestoneTitle parses a YY.MM or YY.MM.point title.
func ParseMilestoneTitle(title string) (MilestoneID, error) {
	parts := strings.Split(title, ".")
	if len(parts) < 2 {
		return MilestoneID{}, &ParseError{Title: title, Err: strconv.ErrSyntax}
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return MilestoneID{}, &ParseError{Title: title, Err: err}
		}
		nums[i] = n
	}

	id := MilestoneID{Year: 2000 + nums[0], Month: nums[1]}
	if len(nums) >= 3 {
		id.Point = &nums[2]
	}
	return id, nil
}

// Title formats the milestone as YY.MM[.point]. Year and month must both
// be set.
func (m MilestoneID) Title() (string, error) {
	if m.Year == 0 {
		return "", &InvalidStateError{Op: "milestone title", Reason: "no year set"}
	}
	if m.Month == 0 {
		return "", &InvalidStateError{Op: "milestone title", Reason: "no month set"}
	}

	t := twoDigits(m.Year-2000) + "." + strconv.Itoa(m.Month)
	if m.Point != nil {
		t += "." + strconv.Itoa(*m.Point)
	}
	return t, nil
}

// MustTitle is Title for milestones known to be fully populated, such as
// ones produced by ParseMilestoneTitle or NewMilestoneID.
func (m MilestoneID) MustTitle() string {
	t, err := m.Title()
	if err != nil {
		panic(err)
	}
	return t
}

func twoDigits(n int) string {
	if n < 10 && n >= 0 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Equal reports structural equality. Two milestones with differing point
// components, including one unset, are never equal.
func (m MilestoneID) Equal(other MilestoneID) bool {
	if m.Year != other.Year || m.Month != other.Month {
		return false
	}
	if (m.Point == nil) != (other.Point == nil) {
		return false
	}
	return m.Point == nil || *m.Point == *other.Point
}

// Before orders milestones by (year, month) ascending.
func (m MilestoneID) Before(other MilestoneID) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// IsPoint reports whether this is a point release like "16.4.2".
func (m MilestoneID) IsPoint() bool { return m.Point != nil }

// DueDate returns the milestone's due date. A release-schedule entry wins
// unless fromTitle is set; otherwise the due date is the last calendar day
// of the milestone's month.
func (m MilestoneID) DueDate(entry *ScheduleEntry, fromTitle bool) time.Time {
	if entry != nil && !fromTitle {
		return entry.Target
	}
	return lastDayOfMonth(m.Year, time.Month(m.Month))
}

func lastDayOfMonth(year int, month time.Month) time.Time {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n months to t, clamping the day-of-month to the last
// valid day of the target month (Jan 31 + 1 month is Feb 28 or 29).
func AddMonths(t time.Time, months int) time.Time {
	total := int(t.Month()) - 1 + months
	year := t.Year() + total/12
	month := time.Month(total%12 + 1)

	day := t.Day()
	if last := lastDayOfMonth(year, month).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SortBuckets sorts milestone bucket names: parseable titles by
// (year, month, point) ascending, with the synthetic Backlog and Legacy
// buckets last in that fixed order when present. Names that are neither
// parseable nor synthetic are dropped. With addSpecial false the synthetic
// buckets are omitted, which the burndown output uses.
func SortBuckets(names []string, addSpecial bool) []string {
	var titles []string
	special := map[string]bool{}

	for _, name := range names {
		switch name {
		case BucketBacklog, BucketLegacy:
			special[name] = true
		default:
			if _, err := ParseMilestoneTitle(name); err == nil {
				titles = append(titles, name)
			}
		}
	}

	sort.Slice(titles, func(i, j int) bool {
		a, _ := ParseMilestoneTitle(titles[i])
		b, _ := ParseMilestoneTitle(titles[j])
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		pa, pb := 0, 0
		if a.Point != nil {
			pa = *a.Point
		}
		if b.Point != nil {
			pb = *b.Point
		}
		return pa < pb
	})

	if addSpecial {
		for _, name := range []string{BucketBacklog, BucketLegacy} {
			if special[name] {
				titles = append(titles, name)
			}
		}
	}
	return titles
}
