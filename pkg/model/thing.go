package model

import "time"

// ThingKind distinguishes issues from pull requests.
type ThingKind string

const (
	KindIssue       ThingKind = "issue"
	KindPullRequest ThingKind = "pull-request"
)

// Icon variants consumed by the backlog renderer.
const (
	IconIssueOpened = "issue-opened"
	IconIssueClosed = "issue-closed"
	IconPRMerged    = "git-merge"
	IconPR          = "git-pull-request"
)

// Thing is a unified record for either an issue or a pull request,
// constructed once per collection run and never written back to the forge.
type Thing struct {
	Number       int        `json:"number"`
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Author       string     `json:"user"`
	Created      time.Time  `json:"created"`
	Updated      time.Time  `json:"updated"`
	Closed       *time.Time `json:"closed,omitempty"`
	State        string     `json:"state"`
	CommentCount int        `json:"comment_count"`
	Labels       []string   `json:"labels"`
	Kind         ThingKind  `json:"type"`
	Icon         string     `json:"icon"`
	Assignee     string     `json:"assignee,omitempty"`
}

// Relationship is a directed dependency edge between two things, each
// written as "repo#number". It is extracted from free text and never
// validated against the target's existence.
type Relationship struct {
	From string `json:"from"`
	Type string `json:"type"`
	To   string `json:"to"`
}

// RelationRequires is the only relationship type currently extracted.
const RelationRequires = "requires"
