// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citelink/pkg/types"
)

// Report is the on-disk record of a finished session.
type Report struct {
	SessionID string                    `yaml:"session_id"`
	Page      string                    `yaml:"page,omitempty"`
	Summary   string                    `yaml:"summary"`
	Stats     Stats                     `yaml:"stats"`
	Links     []types.ArticleLinkResult `yaml:"links"`
	Skipped   []string                  `yaml:"skipped,omitempty"`
	Failed    []string                  `yaml:"failed_searches,omitempty"`
	Timestamp time.Time                 `yaml:"timestamp"`
}

// Report builds a report of the session so far.
func (s *Session) Report() Report {
	r := Report{
		SessionID: s.id,
		Page:      s.opts.Page,
		Summary:   s.Summary(),
		Stats:     s.Stats(),
		Links:     s.Results(),
		Timestamp: time.Now().UTC(),
	}
	for _, c := range s.Citations() {
		if c.State == Skipped {
			r.Skipped = append(r.Skipped, c.Citation.Raw)
		}
		for _, a := range c.Authors {
			if a.Err != nil {
				r.Failed = append(r.Failed, a.Name)
			}
		}
	}
	return r
}

// WriteReport saves the session report as YAML.
func (s *Session) WriteReport(path string) error {
	r := s.Report()
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling session report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing session report %s: %w", path, err)
	}
	return nil
}
