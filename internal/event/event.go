// Package event reads the pull request that triggered a workflow run from
// the event payload the runner writes to GITHUB_EVENT_PATH.
package event

import (
	"encoding/json"
	"fmt"
	"os"

	gogithub "github.com/google/go-github/v57/github"
)

// PullRequest identifies the pull request of a workflow event
type PullRequest struct {
	NodeID string
	Number int
	Title  string
}

// LoadPullRequest decodes the event payload at path. It returns nil without
// error when the event carries no pull request, e.g. for push events.
func LoadPullRequest(path string) (*PullRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return ParsePullRequest(data)
}

// ParsePullRequest decodes a raw event payload. Both pull_request and
// pull_request_target payloads carry the pull request under the same key.
func ParsePullRequest(payload []byte) (*PullRequest, error) {
	var ev gogithub.PullRequestEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}

	pr := ev.GetPullRequest()
	if pr == nil {
		return nil, nil
	}
	if pr.GetNodeID() == "" {
		return nil, fmt.Errorf("pull request #%d in event payload has no node_id", pr.GetNumber())
	}

	return &PullRequest{
		NodeID: pr.GetNodeID(),
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
	}, nil
}
