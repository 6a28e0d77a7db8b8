// Package labels reconciles each repository's label set against the
// configured name-to-color map.
package labels

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

// Result lists the labels one sync touched.
type Result struct {
	Repo    string   `json:"repo"`
	Created []string `json:"created,omitempty"`
	Updated []string `json:"updated,omitempty"`
}

// Syncer creates missing labels and fixes colors that drifted. Labels not
// in the configured map are left alone.
type Syncer struct {
	forge forge.Forge
	log   logrus.FieldLogger
}

// NewSyncer creates a label syncer.
func NewSyncer(f forge.Forge, log logrus.FieldLogger) *Syncer {
	return &Syncer{forge: f, log: log}
}

// Sync reconciles one repository's labels against want (name to hex color,
// without the leading "#").
func (s *Syncer) Sync(ctx context.Context, repo model.RepoRef, want map[string]string) (Result, error) {
	result := Result{Repo: repo.FullName()}
	log := s.log.WithField("repo", repo.FullName())

	existing, err := s.forge.ListLabels(ctx, repo)
	if err != nil {
		return result, fmt.Errorf("list labels: %w", err)
	}

	colors := map[string]string{}
	for _, label := range existing {
		colors[label.Name] = label.Color
	}

	names := make([]string, 0, len(want))
	for name := range want {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		color := want[name]
		current, ok := colors[name]
		if !ok {
			if err := s.forge.CreateLabel(ctx, repo, forge.Label{Name: name, Color: color}); err != nil {
				return result, fmt.Errorf("create label %s: %w", name, err)
			}
			log.WithField("label", name).Debugf("added label with color %s", color)
			result.Created = append(result.Created, name)
			continue
		}

		if current != color {
			if err := s.forge.EditLabel(ctx, repo, forge.Label{Name: name, Color: color}); err != nil {
				return result, fmt.Errorf("edit label %s: %w", name, err)
			}
			log.WithField("label", name).Debugf("updated label color %s -> %s", current, color)
			result.Updated = append(result.Updated, name)
		}
	}

	return result, nil
}
