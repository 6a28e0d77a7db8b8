package milestone

import (
	"context"
	"time"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

// fakeForge is an in-memory forge for engine tests. Edits are applied to
// the stored milestones so multi-step flows observe their own writes, and
// every mutation is recorded for assertions.
type fakeForge struct {
	milestones []forge.Milestone

	edits   []editCall
	created []forge.Milestone

	// collisions records renames onto a title an open milestone already
	// carries, which the real forge would reject or silently shadow.
	collisions []string

	nextNumber int
}

type editCall struct {
	handle forge.Handle
	edit   forge.MilestoneEdit
}

func newFakeForge(milestones ...forge.Milestone) *fakeForge {
	f := &fakeForge{milestones: milestones}
	for _, m := range milestones {
		if m.Handle.Number > f.nextNumber {
			f.nextNumber = m.Handle.Number
		}
	}
	return f
}

func openMilestone(repo model.RepoRef, number int, title string, due time.Time) forge.Milestone {
	return forge.Milestone{
		Title:  title,
		State:  forge.StateOpen,
		DueOn:  &due,
		Handle: forge.Handle{Repo: repo, Number: number},
	}
}

func closedMilestone(repo model.RepoRef, number int, title string, due time.Time) forge.Milestone {
	m := openMilestone(repo, number, title, due)
	m.State = forge.StateClosed
	return m
}

func (f *fakeForge) ListRepos(ctx context.Context, org string) ([]model.RepoRef, error) {
	return nil, nil
}

func (f *fakeForge) ListMilestones(ctx context.Context, repo model.RepoRef, state forge.MilestoneState) ([]forge.Milestone, error) {
	var out []forge.Milestone
	for _, m := range f.milestones {
		if m.State == state {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeForge) CreateMilestone(ctx context.Context, repo model.RepoRef, title string, dueOn *time.Time) (forge.Milestone, error) {
	f.nextNumber++
	m := forge.Milestone{
		Title:  title,
		State:  forge.StateOpen,
		DueOn:  dueOn,
		Handle: forge.Handle{Repo: repo, Number: f.nextNumber},
	}
	f.milestones = append(f.milestones, m)
	f.created = append(f.created, m)
	return m, nil
}

func (f *fakeForge) EditMilestone(ctx context.Context, handle forge.Handle, edit forge.MilestoneEdit) error {
	f.edits = append(f.edits, editCall{handle: handle, edit: edit})
	if edit.Title != nil {
		for _, m := range f.milestones {
			if m.Handle != handle && m.State == forge.StateOpen && m.Title == *edit.Title {
				f.collisions = append(f.collisions, *edit.Title)
			}
		}
	}
	for i := range f.milestones {
		if f.milestones[i].Handle == handle {
			if edit.Title != nil {
				f.milestones[i].Title = *edit.Title
			}
			if edit.DueOn != nil {
				f.milestones[i].DueOn = edit.DueOn
			}
			if edit.State != nil {
				f.milestones[i].State = *edit.State
			}
		}
	}
	return nil
}

func (f *fakeForge) ListIssues(ctx context.Context, repo model.RepoRef, filter forge.IssueFilter) ([]forge.Issue, error) {
	return nil, nil
}

func (f *fakeForge) ListLabels(ctx context.Context, repo model.RepoRef) ([]forge.Label, error) {
	return nil, nil
}

func (f *fakeForge) CreateLabel(ctx context.Context, repo model.RepoRef, label forge.Label) error {
	return nil
}

func (f *fakeForge) EditLabel(ctx context.Context, repo model.RepoRef, label forge.Label) error {
	return nil
}

// openTitles returns the titles of currently open milestones.
func (f *fakeForge) openTitles() map[string]bool {
	titles := map[string]bool{}
	for _, m := range f.milestones {
		if m.State == forge.StateOpen {
			titles[m.Title] = true
		}
	}
	return titles
}
