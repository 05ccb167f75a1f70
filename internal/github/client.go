package github

import (
	"context"
	"errors"
)

// PageSize bounds every list in the closing issues query. Lists longer than
// this are truncated.
const PageSize = 50

var (
	// ErrPullRequestNotFound is returned when the queried node is not a pull request
	ErrPullRequestNotFound = errors.New("pull request not found")
	// ErrNoProjectItem is returned when adding an item to a project yields no item id
	ErrNoProjectItem = errors.New("project item id missing from response")
)

// Client defines the interface for interacting with GitHub
type Client interface {
	// GetClosingIssues retrieves the issues a pull request will close, with
	// their projects and the single select fields of those projects
	GetClosingIssues(ctx context.Context, pullRequestID string) (*PullRequest, error)

	// AddProjectItem adds content (an issue) to a project and returns the
	// project item id. Adding content that is already on the project is a
	// no-op that still returns the existing item id.
	AddProjectItem(ctx context.Context, projectID string, contentID string) (string, error)

	// UpdateSingleSelectField sets a single select field of a project item
	UpdateSingleSelectField(ctx context.Context, projectID string, itemID string, fieldID string, optionID string) error
}
