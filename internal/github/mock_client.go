package github

import (
	"context"
)

// MockClient implements the Client interface for testing
type MockClient struct {
	GetClosingIssuesFunc        func(ctx context.Context, pullRequestID string) (*PullRequest, error)
	AddProjectItemFunc          func(ctx context.Context, projectID string, contentID string) (string, error)
	UpdateSingleSelectFieldFunc func(ctx context.Context, projectID string, itemID string, fieldID string, optionID string) error
}

// GetClosingIssues implements the Client interface
func (c *MockClient) GetClosingIssues(ctx context.Context, pullRequestID string) (*PullRequest, error) {
	if c.GetClosingIssuesFunc != nil {
		return c.GetClosingIssuesFunc(ctx, pullRequestID)
	}
	return &PullRequest{ID: pullRequestID}, nil
}

// AddProjectItem implements the Client interface
func (c *MockClient) AddProjectItem(ctx context.Context, projectID string, contentID string) (string, error) {
	if c.AddProjectItemFunc != nil {
		return c.AddProjectItemFunc(ctx, projectID, contentID)
	}
	return "", nil
}

// UpdateSingleSelectField implements the Client interface
func (c *MockClient) UpdateSingleSelectField(ctx context.Context, projectID string, itemID string, fieldID string, optionID string) error {
	if c.UpdateSingleSelectFieldFunc != nil {
		return c.UpdateSingleSelectFieldFunc(ctx, projectID, itemID, fieldID, optionID)
	}
	return nil
}
