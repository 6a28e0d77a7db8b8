package milestone

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

// Bumper shifts all open, non-point milestones of a repository forward by
// a number of months, rewriting each remote milestone's title and due date
// in place so its attached issues are preserved.
type Bumper struct {
	forge forge.Forge
	log   logrus.FieldLogger
}

// NewBumper creates a milestone bumper.
func NewBumper(f forge.Forge, log logrus.FieldLogger) *Bumper {
	return &Bumper{forge: f, log: log}
}

// Bump reschedules the repository's open milestones months ahead. Open
// milestones are processed most-future first; bumping in any other order
// could rename a milestone onto a title that still exists, so the ordering
// is enforced here rather than left to the remote listing. Point releases
// are skipped. schedule may be nil; entries matching a bumped title are
// shifted by the same number of months and returned keyed by the new title.
func (b *Bumper) Bump(ctx context.Context, repo model.RepoRef, months int, schedule model.Schedule) (model.BumpSummary, error) {
	summary := model.BumpSummary{Months: months, Schedule: model.Schedule{}}
	log := b.log.WithField("repo", repo.FullName())

	open, err := b.forge.ListMilestones(ctx, repo, forge.StateOpen)
	if err != nil {
		return summary, fmt.Errorf("list open milestones: %w", err)
	}

	type candidate struct {
		remote forge.Milestone
		id     model.MilestoneID
	}

	var candidates []candidate
	for _, remote := range open {
		id, err := model.ParseMilestoneTitle(remote.Title)
		if err != nil {
			log.WithField("milestone", remote.Title).Warn("skipping milestone with unrecognized title")
			continue
		}
		if id.IsPoint() {
			log.WithField("milestone", remote.Title).Info("not modifying open point release")
			summary.Skipped = append(summary.Skipped, remote.Title)
			continue
		}
		candidates = append(candidates, candidate{remote: remote, id: id})
	}

	// Most-future first, by the title-derived due date.
	sort.Slice(candidates, func(i, j int) bool {
		a := candidates[i].id.DueDate(nil, true)
		z := candidates[j].id.DueDate(nil, true)
		return z.Before(a)
	})

	for _, c := range candidates {
		oldTitle := c.remote.Title

		dueFromTitle := c.id.DueDate(nil, true)
		shifted := model.AddMonths(dueFromTitle, months)

		bumped := model.NewMilestoneID(shifted.Year(), int(shifted.Month()))
		newTitle := bumped.MustTitle()
		newDue := bumped.DueDate(nil, true)

		log.WithFields(logrus.Fields{
			"milestone": oldTitle,
			"new":       newTitle,
			"due":       newDue.Format("2006-01-02"),
		}).Info("bumping milestone")

		edit := forge.MilestoneEdit{
			Title: &newTitle,
			DueOn: &newDue,
		}
		if err := b.forge.EditMilestone(ctx, c.remote.Handle, edit); err != nil {
			return summary, fmt.Errorf("bump milestone %s: %w", oldTitle, err)
		}

		summary.Bumped = append(summary.Bumped, model.BumpedMilestone{
			Repo:     repo.FullName(),
			OldTitle: oldTitle,
			NewTitle: newTitle,
			NewDue:   newDue,
		})

		if entry := schedule.Entry(oldTitle); entry != nil {
			summary.Schedule[newTitle] = entry.Shift(months)
		}
	}

	return summary, nil
}
