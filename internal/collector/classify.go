package collector

import (
	"regexp"
	"strconv"
	"time"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

// dependsPattern matches cross-repository dependency phrases in issue
// bodies, e.g. "Depends on quattor/aquilon#123" or "requires #45". The
// repository part is optional and defaults to the issue's own repository.
var dependsPattern = regexp.MustCompile(`(?i)((?:depends|based)\s+on|requires)\s+(?P<repository>[\w/-]*)#(?P<number>\d+)`)

// classify buckets one remote issue. The bucket is the explicit milestone
// title when set; otherwise Backlog when the issue was created after the
// cutoff, Legacy when older. Issues whose bucket is not in buckets are
// dropped (ok false), which is not an error. A nil cutoff disables the
// synthetic buckets.
func classify(issue forge.Issue, repo model.RepoRef, buckets map[string]*model.Bucket, cutoff *time.Time) (model.Thing, string, bool) {
	var bucket string

	switch {
	case issue.Milestone != "":
		bucket = issue.Milestone
	case cutoff != nil:
		if issue.CreatedAt.After(*cutoff) {
			bucket = model.BucketBacklog
		} else {
			bucket = model.BucketLegacy
		}
	default:
		return model.Thing{}, "", false
	}

	if _, ok := buckets[bucket]; !ok {
		return model.Thing{}, "", false
	}

	thing := model.Thing{
		Number:       issue.Number,
		URL:          issue.URL,
		Title:        issue.Title,
		Author:       issue.Author,
		Created:      issue.CreatedAt,
		Updated:      issue.UpdatedAt,
		Closed:       issue.ClosedAt,
		State:        issue.State,
		CommentCount: issue.Comments,
		Labels:       issue.Labels,
		Kind:         model.KindIssue,
		Assignee:     issue.Assignee,
	}
	if issue.PullRequest {
		thing.Kind = model.KindPullRequest
	}
	thing.Icon = icon(thing.Kind, thing.State)

	return thing, bucket, true
}

// icon picks the rendering icon variant for a thing.
func icon(kind model.ThingKind, state string) string {
	if kind == model.KindPullRequest {
		if state == "open" {
			return model.IconPR
		}
		return model.IconPRMerged
	}
	if state == "closed" {
		return model.IconIssueClosed
	}
	return model.IconIssueOpened
}

// extractRelationship returns the dependency edge named in the issue body,
// if any. Only the first match counts; a body without the phrase yields no
// relationship.
func extractRelationship(issue forge.Issue, repo model.RepoRef) *model.Relationship {
	match := dependsPattern.FindStringSubmatch(issue.Body)
	if match == nil {
		return nil
	}

	depRepo := match[dependsPattern.SubexpIndex("repository")]
	if depRepo == "" {
		depRepo = repo.Name
	}
	depNumber := match[dependsPattern.SubexpIndex("number")]

	return &model.Relationship{
		From: repo.Name + "#" + strconv.Itoa(issue.Number),
		Type: model.RelationRequires,
		To:   depRepo + "#" + depNumber,
	}
}
