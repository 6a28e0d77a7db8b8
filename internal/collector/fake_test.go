package collector

import (
	"context"
	"io"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeForge serves canned milestones and issues per repository and can be
// told to fail the first N calls of an operation with a transient error.
type fakeForge struct {
	milestones map[string][]forge.Milestone // repo full name -> open milestones
	issues     map[string][]forge.Issue     // repo full name -> issues

	// failures maps an operation name to a countdown of transient
	// failures to serve before succeeding.
	failures map[string]int

	calls map[string]int
}

func newFakeForge() *fakeForge {
	return &fakeForge{
		milestones: map[string][]forge.Milestone{},
		issues:     map[string][]forge.Issue{},
		failures:   map[string]int{},
		calls:      map[string]int{},
	}
}

func (f *fakeForge) fail(op string) error {
	f.calls[op]++
	if f.failures[op] > 0 {
		f.failures[op]--
		return syscall.ECONNRESET
	}
	return nil
}

func (f *fakeForge) ListRepos(ctx context.Context, org string) ([]model.RepoRef, error) {
	return nil, nil
}

func (f *fakeForge) ListMilestones(ctx context.Context, repo model.RepoRef, state forge.MilestoneState) ([]forge.Milestone, error) {
	if err := f.fail("milestones"); err != nil {
		return nil, err
	}
	if state != forge.StateOpen {
		return nil, nil
	}
	return f.milestones[repo.FullName()], nil
}

func (f *fakeForge) CreateMilestone(ctx context.Context, repo model.RepoRef, title string, dueOn *time.Time) (forge.Milestone, error) {
	return forge.Milestone{}, nil
}

func (f *fakeForge) EditMilestone(ctx context.Context, handle forge.Handle, edit forge.MilestoneEdit) error {
	return nil
}

func (f *fakeForge) ListIssues(ctx context.Context, repo model.RepoRef, filter forge.IssueFilter) ([]forge.Issue, error) {
	if err := f.fail("issues"); err != nil {
		return nil, err
	}

	var out []forge.Issue
	for _, issue := range f.issues[repo.FullName()] {
		switch filter.Milestone {
		case "*":
			if issue.Milestone == "" {
				continue
			}
		case "none":
			if issue.Milestone != "" || issue.CreatedAt.Before(filter.Since) {
				continue
			}
		}
		out = append(out, issue)
	}
	return out, nil
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
