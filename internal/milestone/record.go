// Package milestone implements the milestone lifecycle engine: generating
// the upcoming milestone set, reconciling it against a repository's remote
// milestones, and bumping open milestones forward in time.
package milestone

import (
	"time"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

// Record binds a milestone identifier to at most one remote milestone and
// to an optional release-schedule entry. Remote is nil for milestones that
// do not exist on the forge yet; mutation paths require it.
type Record struct {
	ID      model.MilestoneID
	Remote  *forge.Milestone
	Release *model.ScheduleEntry
}

// DueOn returns the record's due date: the schedule target when a release
// entry is bound, the last day of the milestone's month otherwise.
func (r Record) DueOn() time.Time {
	return r.ID.DueDate(r.Release, false)
}

// Handle returns the remote handle. Editing a record without a remote
// milestone is an invalid state, never a silent no-op.
func (r Record) Handle() (forge.Handle, error) {
	if r.Remote == nil {
		return forge.Handle{}, &model.InvalidStateError{
			Op:     "milestone " + r.ID.MustTitle(),
			Reason: "no remote milestone bound",
		}
	}
	return r.Remote.Handle, nil
}
