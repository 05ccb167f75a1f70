// Package fieldsync sets a single select field on the project items of every
// issue a pull request closes.
package fieldsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/naag/gh-project-field-sync/internal/github"
	"github.com/naag/gh-project-field-sync/internal/github/projecturl"
)

// Options tune a Service beyond the field and value being synced
type Options struct {
	// DryRun resolves fields and options but issues no mutations
	DryRun bool
	// Projects restricts updates to these projects. Empty means all projects.
	Projects []projecturl.ProjectInfo
	// Concurrency is the number of (issue, project) pairs processed at once.
	// Values below 2 process pairs sequentially.
	Concurrency int
	Logger      *slog.Logger
}

// Service provides functionality for syncing a project field from a pull request
type Service struct {
	client github.Client
	opts   Options
	logger *slog.Logger
}

// NewService creates a new field sync service
func NewService(client github.Client, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

// Summary counts the outcome of a SyncField run
type Summary struct {
	Updated int
	Skipped int
}

// target is one (issue, project) pair whose project item gets updated
type target struct {
	issue   github.Issue
	project github.Project
}

type counters struct {
	updated atomic.Int64
	skipped atomic.Int64
}

// SyncField sets fieldName to fieldValue on the project items of every issue
// closed by the pull request with node id pullRequestID.
//
// Pairs whose project lacks the field or the option are skipped and logged.
// Any GitHub API error aborts the run and is returned.
func (s *Service) SyncField(ctx context.Context, pullRequestID, fieldName, fieldValue string) (Summary, error) {
	if pullRequestID == "" {
		s.logger.Info("no pull request given, nothing to be done")
		return Summary{}, nil
	}

	pr, err := s.client.GetClosingIssues(ctx, pullRequestID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get closing issues: %w", err)
	}

	s.logger.Debug("resolved pull request",
		"pull_request", pr.Number,
		"title", pr.Title,
		"closing_issues", len(pr.ClosingIssues),
	)

	var targets []target
	for _, issue := range pr.ClosingIssues {
		for _, project := range issue.Projects {
			targets = append(targets, target{issue: issue, project: project})
		}
	}

	if len(targets) == 0 {
		s.logger.Info("pull request closes no issues on any project", "pull_request", pr.Number)
		return Summary{}, nil
	}

	var c counters
	if s.opts.Concurrency > 1 {
		err = s.syncConcurrently(ctx, targets, fieldName, fieldValue, &c)
	} else {
		err = s.syncSequentially(ctx, targets, fieldName, fieldValue, &c)
	}

	summary := Summary{
		Updated: int(c.updated.Load()),
		Skipped: int(c.skipped.Load()),
	}
	if err != nil {
		return summary, err
	}

	s.logger.Info("sync completed",
		"pull_request", pr.Number,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

func (s *Service) syncSequentially(ctx context.Context, targets []target, fieldName, fieldValue string, c *counters) error {
	for _, t := range targets {
		if err := s.syncTarget(ctx, t, fieldName, fieldValue, c); err != nil {
			return err
		}
	}
	return nil
}

// syncConcurrently fans out over targets; the first error cancels the rest
func (s *Service) syncConcurrently(ctx context.Context, targets []target, fieldName, fieldValue string, c *counters) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for _, t := range targets {
		g.Go(func() error {
			return s.syncTarget(ctx, t, fieldName, fieldValue, c)
		})
	}
	return g.Wait()
}

// syncTarget updates a single project item. Missing fields or options are
// not errors.
func (s *Service) syncTarget(ctx context.Context, t target, fieldName, fieldValue string, c *counters) error {
	issue, project := t.issue, t.project

	if !s.projectSelected(project) {
		s.logger.Debug("skipping project not selected for sync",
			"issue", issue.Number,
			"project", project.Title,
			"project_url", project.URL,
		)
		c.skipped.Add(1)
		return nil
	}

	field, ok := project.FieldByName(fieldName)
	if !ok {
		s.logger.Warn("field not found on project, skipping",
			"issue", issue.Number,
			"project", project.Title,
			"field", fieldName,
		)
		c.skipped.Add(1)
		return nil
	}

	option, ok := field.OptionByName(fieldValue)
	if !ok {
		s.logger.Warn("option not found on field, skipping",
			"issue", issue.Number,
			"project", project.Title,
			"field", fieldName,
			"value", fieldValue,
		)
		c.skipped.Add(1)
		return nil
	}

	if s.opts.DryRun {
		s.logger.Info("dry run, not updating field",
			"issue", issue.Number,
			"project", project.Title,
			"field", fieldName,
			"value", fieldValue,
			"field_id", field.ID,
			"option_id", option.ID,
			"dry_run", true,
		)
		c.skipped.Add(1)
		return nil
	}

	// The item id needed for the update is the id of the issue's membership
	// in the project, which can only be obtained by (re-)adding the issue.
	itemID, err := s.client.AddProjectItem(ctx, project.ID, issue.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve project item for issue #%d in project %q: %w", issue.Number, project.Title, err)
	}
	if itemID == "" {
		return fmt.Errorf("failed to resolve project item for issue #%d in project %q: %w", issue.Number, project.Title, github.ErrNoProjectItem)
	}

	s.logger.Info("updating field",
		"issue", issue.Number,
		"project", project.Title,
		"field", fieldName,
		"value", fieldValue,
		"item_id", itemID,
	)

	if err := s.client.UpdateSingleSelectField(ctx, project.ID, itemID, field.ID, option.ID); err != nil {
		return fmt.Errorf("failed to update field %q for issue #%d in project %q: %w", fieldName, issue.Number, project.Title, err)
	}

	c.updated.Add(1)
	return nil
}

func (s *Service) projectSelected(project github.Project) bool {
	if len(s.opts.Projects) == 0 {
		return true
	}
	for _, p := range s.opts.Projects {
		if p.Matches(project.URL) {
			return true
		}
	}
	return false
}
