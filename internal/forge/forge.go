// Package forge abstracts the repository hosting service. The milestone
// engine and the collector only ever talk to the Forge interface; the
// GitHub implementation lives in github.go.
package forge

import (
	"context"
	"time"

	"github.com/quattor/release-helper/pkg/model"
)

// MilestoneState is the remote open/closed state of a milestone.
type MilestoneState string

const (
	StateOpen   MilestoneState = "open"
	StateClosed MilestoneState = "closed"
)

// Handle identifies one remote milestone. Mutations address the handle,
// never the title, so renames preserve the attached issues.
type Handle struct {
	Repo   model.RepoRef
	Number int
}

// Milestone is the remote view of a milestone.
type Milestone struct {
	Title        string
	State        MilestoneState
	DueOn        *time.Time
	OpenIssues   int
	ClosedIssues int
	Handle       Handle
}

// MilestoneEdit is a partial update of a remote milestone. Nil fields are
// left unchanged.
type MilestoneEdit struct {
	Title *string
	DueOn *time.Time
	State *MilestoneState
}

// IssueFilter narrows an issue listing. Milestone takes a milestone
// number, "none" for unmilestoned issues, or "*" for any milestone.
type IssueFilter struct {
	State     string // "open", "closed" or "all"; empty means the service default
	Milestone string
	Since     time.Time
}

// Issue is the remote view of an issue or pull request.
type Issue struct {
	Number      int
	URL         string
	Title       string
	Body        string
	Author      string
	State       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
	Comments    int
	Labels      []string
	Milestone   string // title, empty when unassigned
	Assignee    string
	PullRequest bool
}

// Label is a repository label.
type Label struct {
	Name  string
	Color string
}

// Forge is the repository collaborator capability consumed by the
// milestone engine, the collector and the label synchronizer.
type Forge interface {
	// ListRepos returns all repositories of an organization or user.
	ListRepos(ctx context.Context, org string) ([]model.RepoRef, error)

	// ListMilestones returns the repository's milestones in the given state.
	ListMilestones(ctx context.Context, repo model.RepoRef, state MilestoneState) ([]Milestone, error)

	// CreateMilestone creates a milestone and returns its remote view.
	CreateMilestone(ctx context.Context, repo model.RepoRef, title string, dueOn *time.Time) (Milestone, error)

	// EditMilestone applies a partial update to the milestone behind handle.
	EditMilestone(ctx context.Context, handle Handle, edit MilestoneEdit) error

	// ListIssues returns the repository's issues (including pull requests)
	// matching the filter.
	ListIssues(ctx context.Context, repo model.RepoRef, filter IssueFilter) ([]Issue, error)

	// ListLabels returns the repository's labels.
	ListLabels(ctx context.Context, repo model.RepoRef) ([]Label, error)

	// CreateLabel creates a label.
	CreateLabel(ctx context.Context, repo model.RepoRef, label Label) error

	// EditLabel updates the color of an existing label.
	EditLabel(ctx context.Context, repo model.RepoRef, label Label) error
}
