package forge

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/grokify/gogithub/auth"
	"github.com/grokify/mogo/net/http/retryhttp"

	"github.com/quattor/release-helper/pkg/model"
)

// GitHubForge implements Forge against the GitHub REST API.
type GitHubForge struct {
	client *github.Client
}

// Config tunes the HTTP behavior of the GitHub forge.
type Config struct {
	// Token is the GitHub personal access token.
	Token string

	// MaxRetries is the maximum number of HTTP-level retry attempts
	// (rate limits, 5xx). Default is 3.
	MaxRetries int

	// InitialBackoff is the initial backoff duration for HTTP retries.
	// Default is 1 second.
	InitialBackoff time.Duration
}

// NewGitHub creates a GitHub forge with default HTTP behavior.
func NewGitHub(ctx context.Context, token string) *GitHubForge {
	return &GitHubForge{client: auth.NewGitHubClient(ctx, token)}
}

// NewGitHubWithConfig creates a GitHub forge whose client retries rate
// limited and failed requests at the transport level.
func NewGitHubWithConfig(cfg Config) *GitHubForge {
	retryOpts := []retryhttp.Option{}
	if cfg.MaxRetries > 0 {
		retryOpts = append(retryOpts, retryhttp.WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.InitialBackoff > 0 {
		retryOpts = append(retryOpts, retryhttp.WithInitialBackoff(cfg.InitialBackoff))
	}

	rt := retryhttp.NewWithOptions(retryOpts...)
	httpClient := &http.Client{Transport: rt}

	client := github.NewClient(httpClient)
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}

	return &GitHubForge{client: client}
}

// ListRepos returns all repositories of an organization.
func (f *GitHubForge) ListRepos(ctx context.Context, org string) ([]model.RepoRef, error) {
	var repos []model.RepoRef

	opt := &github.RepositoryListByOrgOptions{
		Type: "all",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	for {
		ghRepos, resp, err := f.client.Repositories.ListByOrg(ctx, org, opt)
		if err != nil {
			return nil, err
		}

		for _, r := range ghRepos {
			repos = append(repos, model.RepoRef{
				Owner: r.GetOwner().GetLogin(),
				Name:  r.GetName(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return repos, nil
}

// ListMilestones returns the repository's milestones in the given state.
func (f *GitHubForge) ListMilestones(ctx context.Context, repo model.RepoRef, state MilestoneState) ([]Milestone, error) {
	var milestones []Milestone

	opt := &github.MilestoneListOptions{
		State: string(state),
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	for {
		ghMilestones, resp, err := f.client.Issues.ListMilestones(ctx, repo.Owner, repo.Name, opt)
		if err != nil {
			return nil, err
		}

		for _, m := range ghMilestones {
			milestones = append(milestones, convertMilestone(m, repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return milestones, nil
}

// CreateMilestone creates a milestone and returns its remote view.
func (f *GitHubForge) CreateMilestone(ctx context.Context, repo model.RepoRef, title string, dueOn *time.Time) (Milestone, error) {
	req := &github.Milestone{
		Title: github.Ptr(title),
	}
	if dueOn != nil {
		req.DueOn = &github.Timestamp{Time: *dueOn}
	}

	created, _, err := f.client.Issues.CreateMilestone(ctx, repo.Owner, repo.Name, req)
	if err != nil {
		return Milestone{}, err
	}

	return convertMilestone(created, repo), nil
}

// EditMilestone applies a partial update to the milestone behind handle.
func (f *GitHubForge) EditMilestone(ctx context.Context, handle Handle, edit MilestoneEdit) error {
	req := &github.Milestone{}
	if edit.Title != nil {
		req.Title = edit.Title
	}
	if edit.DueOn != nil {
		req.DueOn = &github.Timestamp{Time: *edit.DueOn}
	}
	if edit.State != nil {
		req.State = github.Ptr(string(*edit.State))
	}

	_, _, err := f.client.Issues.EditMilestone(ctx, handle.Repo.Owner, handle.Repo.Name, handle.Number, req)
	return err
}

// ListIssues returns the repository's issues, pull requests included,
// matching the filter.
func (f *GitHubForge) ListIssues(ctx context.Context, repo model.RepoRef, filter IssueFilter) ([]Issue, error) {
	var issues []Issue

	opt := &github.IssueListByRepoOptions{
		Milestone: filter.Milestone,
		State:     filter.State,
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}
	if !filter.Since.IsZero() {
		opt.Since = filter.Since
	}

	for {
		ghIssues, resp, err := f.client.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opt)
		if err != nil {
			return nil, err
		}

		for _, issue := range ghIssues {
			issues = append(issues, convertIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		// IssueListByRepoOptions also embeds cursor options, so the
		// page-number field needs the explicit path.
		opt.ListOptions.Page = resp.NextPage
	}

	return issues, nil
}

// ListLabels returns the repository's labels.
func (f *GitHubForge) ListLabels(ctx context.Context, repo model.RepoRef) ([]Label, error) {
	var labels []Label

	opt := &github.ListOptions{PerPage: 100}

	for {
		ghLabels, resp, err := f.client.Issues.ListLabels(ctx, repo.Owner, repo.Name, opt)
		if err != nil {
			return nil, err
		}

		for _, l := range ghLabels {
			labels = append(labels, Label{Name: l.GetName(), Color: l.GetColor()})
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return labels, nil
}

// CreateLabel creates a label.
func (f *GitHubForge) CreateLabel(ctx context.Context, repo model.RepoRef, label Label) error {
	_, _, err := f.client.Issues.CreateLabel(ctx, repo.Owner, repo.Name, &github.Label{
		Name:  github.Ptr(label.Name),
		Color: github.Ptr(label.Color),
	})
	return err
}

// EditLabel updates the color of an existing label.
func (f *GitHubForge) EditLabel(ctx context.Context, repo model.RepoRef, label Label) error {
	_, _, err := f.client.Issues.EditLabel(ctx, repo.Owner, repo.Name, label.Name, &github.Label{
		Name:  github.Ptr(label.Name),
		Color: github.Ptr(label.Color),
	})
	return err
}

// convertMilestone converts a GitHub milestone to the forge view.
func convertMilestone(m *github.Milestone, repo model.RepoRef) Milestone {
	milestone := Milestone{
		Title:        m.GetTitle(),
		State:        MilestoneState(m.GetState()),
		OpenIssues:   m.GetOpenIssues(),
		ClosedIssues: m.GetClosedIssues(),
		Handle: Handle{
			Repo:   repo,
			Number: m.GetNumber(),
		},
	}

	if m.DueOn != nil {
		t := m.GetDueOn().Time
		milestone.DueOn = &t
	}

	return milestone
}

// convertIssue converts a GitHub issue to the forge view.
func convertIssue(issue *github.Issue) Issue {
	var labels []string
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	converted := Issue{
		Number:      issue.GetNumber(),
		URL:         issue.GetHTMLURL(),
		Title:       issue.GetTitle(),
		Body:        issue.GetBody(),
		Author:      issue.GetUser().GetLogin(),
		State:       issue.GetState(),
		CreatedAt:   issue.GetCreatedAt().Time,
		UpdatedAt:   issue.GetUpdatedAt().Time,
		Comments:    issue.GetComments(),
		Labels:      labels,
		Milestone:   issue.GetMilestone().GetTitle(),
		Assignee:    issue.GetAssignee().GetLogin(),
		PullRequest: issue.IsPullRequest(),
	}

	if issue.ClosedAt != nil {
		t := issue.GetClosedAt().Time
		converted.ClosedAt = &t
	}

	return converted
}
