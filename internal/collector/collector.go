// Package collector drives the issue classifier across all configured
// repositories and aggregates the per-milestone, per-repository buckets
// that the rendering side consumes.
package collector

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

// DefaultBacklogDays is the trailing window for the synthetic Backlog
// bucket: unmilestoned issues created within it are Backlog, older ones
// Legacy.
const DefaultBacklogDays = 60

// Options tunes a collection run.
type Options struct {
	// BacklogDays is the Backlog window in days. Default 60.
	BacklogDays int

	// Retries is the per-call-site attempt budget for transient network
	// failures. Default 3.
	Retries int
}

// Collector gathers milestone and issue data from the forge, one
// repository at a time.
type Collector struct {
	forge       forge.Forge
	log         logrus.FieldLogger
	backlogDays int
	retries     int
	now         func() time.Time
}

// New creates a collector.
func New(f forge.Forge, log logrus.FieldLogger, opts Options) *Collector {
	if opts.BacklogDays <= 0 {
		opts.BacklogDays = DefaultBacklogDays
	}
	if opts.Retries <= 0 {
		opts.Retries = DefaultRetries
	}

	return &Collector{
		forge:       f,
		log:         log,
		backlogDays: opts.BacklogDays,
		retries:     opts.Retries,
		now:         time.Now,
	}
}

// Collect processes every repository sequentially and merges the results,
// keyed first by milestone title, then by repository name. A repository
// whose forge calls fail past the retry budget is logged and skipped; its
// partial data is discarded and the remaining repositories still run.
func (c *Collector) Collect(ctx context.Context, repos []model.RepoRef) *model.CollectResult {
	result := &model.CollectResult{
		Timestamp:     c.now().UTC(),
		Milestones:    map[string]map[string]*model.Bucket{},
		Relationships: []model.Relationship{},
	}

	for _, repo := range repos {
		log := c.log.WithField("repo", repo.FullName())
		log.Debug("collecting")

		buckets, relationships, err := c.collectRepo(ctx, repo)
		if err != nil {
			log.WithError(err).Error("collection failed, skipping repository")
			result.Errors = append(result.Errors, model.RepoError{
				Repo:    repo.FullName(),
				Op:      "collect",
				Message: err.Error(),
			})
			continue
		}

		for bucket, data := range buckets {
			perRepo, ok := result.Milestones[bucket]
			if !ok {
				perRepo = map[string]*model.Bucket{}
				result.Milestones[bucket] = perRepo
			}
			perRepo[repo.Name] = data
		}
		result.Relationships = append(result.Relationships, relationships...)
	}

	return result
}

// collectRepo gathers one repository: the milestone summary, then all
// candidate issues, classified into buckets.
func (c *Collector) collectRepo(ctx context.Context, repo model.RepoRef) (map[string]*model.Bucket, []model.Relationship, error) {
	log := c.log.WithField("repo", repo.FullName())

	buckets, err := c.milestoneSummary(ctx, repo)
	if err != nil {
		return nil, nil, err
	}

	cutoff := c.now().AddDate(0, 0, -c.backlogDays)

	var candidates []forge.Issue

	// All issues assigned to any milestone, whatever their age or state.
	err = retryTransient(log, "list milestoned issues", c.retries, func() error {
		issues, err := c.forge.ListIssues(ctx, repo, forge.IssueFilter{
			State:     "all",
			Milestone: "*",
		})
		if err != nil {
			return err
		}
		candidates = append(candidates, issues...)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Unmilestoned issues inside the backlog window.
	err = retryTransient(log, "list backlog issues", c.retries, func() error {
		issues, err := c.forge.ListIssues(ctx, repo, forge.IssueFilter{
			Milestone: "none",
			Since:     cutoff,
		})
		if err != nil {
			return err
		}
		candidates = append(candidates, issues...)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var relationships []model.Relationship

	for _, issue := range candidates {
		thing, bucket, ok := classify(issue, repo, buckets, &cutoff)
		if !ok {
			log.WithField("issue", issue.Number).Debug("ignoring issue outside buckets of interest")
			continue
		}

		buckets[bucket].Things = append(buckets[bucket].Things, thing)

		if rel := extractRelationship(issue, repo); rel != nil {
			relationships = append(relationships, *rel)
		}
	}

	return buckets, relationships, nil
}

// milestoneSummary returns the repository's bucket map: one bucket per
// open milestone, carrying its open/closed counts and due date, plus the
// always-present Backlog and Legacy placeholders.
func (c *Collector) milestoneSummary(ctx context.Context, repo model.RepoRef) (map[string]*model.Bucket, error) {
	log := c.log.WithField("repo", repo.FullName())

	buckets := map[string]*model.Bucket{
		model.BucketBacklog: model.NewBucket(),
		model.BucketLegacy:  model.NewBucket(),
	}

	err := retryTransient(log, "list open milestones", c.retries, func() error {
		milestones, err := c.forge.ListMilestones(ctx, repo, forge.StateOpen)
		if err != nil {
			return err
		}

		for _, m := range milestones {
			bucket := model.NewBucket()
			bucket.Open = m.OpenIssues
			bucket.Closed = m.ClosedIssues
			bucket.Due = m.DueOn
			buckets[m.Title] = bucket
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buckets, nil
}
