package model

import "time"

// Bucket aggregates the things of one milestone within one repository.
type Bucket struct {
	Things []Thing    `json:"things"`
	Open   int        `json:"open"`
	Closed int        `json:"closed"`
	Due    *time.Time `json:"due"`
}

// NewBucket returns an empty bucket. Things is non-nil so the bucket
// serializes as an empty list rather than null.
func NewBucket() *Bucket {
	return &Bucket{Things: []Thing{}}
}

// CollectResult is the aggregated output of one collection run: milestone
// title to repository name to bucket, plus the flattened relationship
// list. It is handed to the rendering side and then discarded.
type CollectResult struct {
	Timestamp     time.Time                     `json:"timestamp"`
	Milestones    map[string]map[string]*Bucket `json:"milestones"`
	Relationships []Relationship                `json:"relationships"`
	Errors        []RepoError                   `json:"errors,omitempty"`
}

// RepoError records a repository whose collection failed after the retry
// budget was exhausted. No partial results are kept for it.
type RepoError struct {
	Repo    string `json:"repo"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

// RepoSyncResult counts the remote writes one milestone sync performed for
// one repository. A fully converged repository reports all zeros.
type RepoSyncResult struct {
	Repo     string   `json:"repo"`
	Created  []string `json:"created,omitempty"`
	Edited   []string `json:"edited,omitempty"`
	Reopened []string `json:"reopened,omitempty"`
	ClosedMs []string `json:"closed,omitempty"`
	Skipped  []string `json:"skippedPointReleases,omitempty"`
}

// Writes returns the total number of remote mutations.
func (r RepoSyncResult) Writes() int {
	return len(r.Created) + len(r.Edited) + len(r.Reopened) + len(r.ClosedMs)
}

// SyncSummary aggregates milestone sync results across repositories.
type SyncSummary struct {
	Timestamp time.Time        `json:"timestamp"`
	Repos     []RepoSyncResult `json:"repos"`
	Errors    []RepoError      `json:"errors,omitempty"`
}

// BumpedMilestone records one milestone rename performed by a bump.
type BumpedMilestone struct {
	Repo     string    `json:"repo"`
	OldTitle string    `json:"oldTitle"`
	NewTitle string    `json:"newTitle"`
	NewDue   time.Time `json:"newDue"`
}

// BumpSummary aggregates the milestone bumps across repositories. Schedule
// holds the shifted release-schedule entries, keyed by the new milestone
// titles, for the caller to persist as updated configuration.
type BumpSummary struct {
	Timestamp time.Time         `json:"timestamp"`
	Months    int               `json:"months"`
	Bumped    []BumpedMilestone `json:"bumped"`
	Skipped   []string          `json:"skippedPointReleases,omitempty"`
	Schedule  Schedule          `json:"schedule,omitempty"`
	Errors    []RepoError       `json:"errors,omitempty"`
}
