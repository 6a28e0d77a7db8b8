package milestone

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

// DefaultGracePeriod keeps a milestone open until a full day past its due
// date, so a milestone due today is not closed mid-day.
const DefaultGracePeriod = 24 * time.Hour

// Syncer reconciles a repository's remote milestone set against the
// desired set. All writes are conditional: a repository whose remote
// state already matches produces zero mutations.
type Syncer struct {
	forge forge.Forge
	log   logrus.FieldLogger
	grace time.Duration
	now   func() time.Time
}

// NewSyncer creates a milestone syncer.
func NewSyncer(f forge.Forge, log logrus.FieldLogger) *Syncer {
	return &Syncer{
		forge: f,
		log:   log,
		grace: DefaultGracePeriod,
		now:   time.Now,
	}
}

// Sync reconciles one repository:
//
//   - closed milestones whose due date moved back into the future are
//     reopened (they were closed prematurely);
//   - open milestones without a point component get their due date
//     recomputed (schedule override when the title appears in desired,
//     month end otherwise) and their state re-evaluated;
//   - open point releases are never touched;
//   - desired milestones absent from the remote set are created.
func (s *Syncer) Sync(ctx context.Context, repo model.RepoRef, desired []Record) (model.RepoSyncResult, error) {
	result := model.RepoSyncResult{Repo: repo.FullName()}
	log := s.log.WithField("repo", repo.FullName())

	open, err := s.forge.ListMilestones(ctx, repo, forge.StateOpen)
	if err != nil {
		return result, fmt.Errorf("list open milestones: %w", err)
	}
	closed, err := s.forge.ListMilestones(ctx, repo, forge.StateClosed)
	if err != nil {
		return result, fmt.Errorf("list closed milestones: %w", err)
	}

	cutoff := s.now().Add(-s.grace)

	for _, remote := range closed {
		log.WithField("milestone", remote.Title).Debug("found closed milestone")

		if remote.DueOn != nil && !remote.DueOn.Before(cutoff) {
			if err := s.setState(ctx, remote, forge.StateOpen); err != nil {
				return result, err
			}
			log.WithField("milestone", remote.Title).Info("reopened prematurely closed milestone")
			result.Reopened = append(result.Reopened, remote.Title)
		}
	}

	for _, remote := range open {
		log.WithField("milestone", remote.Title).Debug("found open milestone")

		id, err := model.ParseMilestoneTitle(remote.Title)
		if err != nil {
			log.WithField("milestone", remote.Title).Warn("skipping milestone with unrecognized title")
			continue
		}

		if id.IsPoint() {
			log.WithField("milestone", remote.Title).Info("not modifying open point release")
			result.Skipped = append(result.Skipped, remote.Title)
			continue
		}

		record := Record{ID: id, Remote: &remote}
		if match := findRecord(desired, id); match != nil {
			record.Release = match.Release
		} else {
			log.WithField("milestone", remote.Title).Warn("open milestone not in release schedule, due date generated from title")
		}

		due := record.DueOn()
		if remote.DueOn == nil || !sameDate(*remote.DueOn, due) {
			if err := s.setDue(ctx, record, due); err != nil {
				return result, err
			}
			result.Edited = append(result.Edited, remote.Title)
		}

		want := forge.StateOpen
		if due.Before(cutoff) {
			want = forge.StateClosed
		}
		if remote.State != want {
			if err := s.setState(ctx, remote, want); err != nil {
				return result, err
			}
			if want == forge.StateClosed {
				result.ClosedMs = append(result.ClosedMs, remote.Title)
			} else {
				result.Reopened = append(result.Reopened, remote.Title)
			}
		}
	}

	for _, want := range desired {
		if containsID(open, want.ID) || containsID(closed, want.ID) {
			log.WithField("milestone", want.ID.MustTitle()).Debug("future milestone already present")
			continue
		}

		due := want.DueOn()
		log.WithFields(logrus.Fields{
			"milestone": want.ID.MustTitle(),
			"due":       due.Format("2006-01-02"),
		}).Info("creating milestone")

		if _, err := s.forge.CreateMilestone(ctx, repo, want.ID.MustTitle(), &due); err != nil {
			return result, fmt.Errorf("create milestone %s: %w", want.ID.MustTitle(), err)
		}
		result.Created = append(result.Created, want.ID.MustTitle())
	}

	return result, nil
}

func (s *Syncer) setDue(ctx context.Context, record Record, due time.Time) error {
	handle, err := record.Handle()
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"milestone": record.Remote.Title,
		"due":       due.Format("2006-01-02"),
	}).Info("setting milestone due date")

	if err := s.forge.EditMilestone(ctx, handle, forge.MilestoneEdit{DueOn: &due}); err != nil {
		return fmt.Errorf("edit milestone %s: %w", record.Remote.Title, err)
	}
	return nil
}

func (s *Syncer) setState(ctx context.Context, remote forge.Milestone, state forge.MilestoneState) error {
	if err := s.forge.EditMilestone(ctx, remote.Handle, forge.MilestoneEdit{State: &state}); err != nil {
		return fmt.Errorf("set milestone %s state %s: %w", remote.Title, state, err)
	}
	return nil
}

// findRecord returns the desired record structurally equal to id, nil when
// absent.
func findRecord(desired []Record, id model.MilestoneID) *Record {
	for i := range desired {
		if desired[i].ID.Equal(id) {
			return &desired[i]
		}
	}
	return nil
}

// containsID reports whether a remote milestone with a structurally equal
// parsed title exists. Unparseable titles never match.
func containsID(milestones []forge.Milestone, id model.MilestoneID) bool {
	for _, m := range milestones {
		other, err := model.ParseMilestoneTitle(m.Title)
		if err != nil {
			continue
		}
		if other.Equal(id) {
			return true
		}
	}
	return false
}

// sameDate compares calendar days, ignoring the intra-day timestamp the
// forge attaches to due dates.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
