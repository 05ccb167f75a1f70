package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// GraphQLClient implements the Client interface using GitHub's GraphQL API
type GraphQLClient struct {
	client *githubv4.Client
}

// NewGraphQLClient creates a new GitHub GraphQL client authenticated with token.
// An empty endpoint targets api.github.com; anything else is treated as a
// GitHub Enterprise GraphQL URL. With httpDebug set, every request and
// response is dumped to logger at debug level.
func NewGraphQLClient(token, endpoint string, httpDebug bool, logger *slog.Logger) (*GraphQLClient, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token not set")
	}

	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), src)

	if httpDebug {
		httpClient.Transport = &debugTransport{
			transport: httpClient.Transport,
			logger:    logger,
		}
	}

	return newGraphQLClient(endpoint, httpClient), nil
}

func newGraphQLClient(endpoint string, httpClient *http.Client) *GraphQLClient {
	if endpoint == "" {
		return &GraphQLClient{client: githubv4.NewClient(httpClient)}
	}
	return &GraphQLClient{client: githubv4.NewEnterpriseClient(endpoint, httpClient)}
}

// GraphQL query types for GitHub's API
type (
	// closingIssuesQuery resolves a pull request node down to the options of
	// the single select fields of every project of every issue it closes
	closingIssuesQuery struct {
		Node struct {
			PullRequest pullRequestNode `graphql:"... on PullRequest"`
		} `graphql:"node(id: $id)"`
	}

	pullRequestNode struct {
		ID                      string
		Number                  int
		Title                   string
		ClosingIssuesReferences struct {
			Nodes []issueNode
		} `graphql:"closingIssuesReferences(first: $first)"`
	}

	issueNode struct {
		ID         string
		Number     int
		Title      string
		ProjectsV2 struct {
			Nodes []projectV2Node
		} `graphql:"projectsV2(first: $first)"`
	}

	projectV2Node struct {
		ID     string
		Number int
		Title  string
		URL    string
		Fields struct {
			Nodes []projectV2FieldConfiguration
		} `graphql:"fields(first: $first)"`
	}

	// projectV2FieldConfiguration is a union; only single select fields
	// are of interest
	projectV2FieldConfiguration struct {
		TypeName          string `graphql:"__typename"`
		SingleSelectField struct {
			ID      string
			Name    string
			Options []struct {
				ID   string
				Name string
			}
		} `graphql:"... on ProjectV2SingleSelectField"`
	}
)

// GetClosingIssues implements the Client interface
func (c *GraphQLClient) GetClosingIssues(ctx context.Context, pullRequestID string) (*PullRequest, error) {
	var query closingIssuesQuery

	variables := map[string]interface{}{
		"id":    githubv4.ID(pullRequestID),
		"first": githubv4.Int(PageSize),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("failed to query closing issues: %w", err)
	}

	node := query.Node.PullRequest
	if node.ID == "" {
		return nil, fmt.Errorf("%w: %s", ErrPullRequestNotFound, pullRequestID)
	}

	pr := &PullRequest{
		ID:     node.ID,
		Number: node.Number,
		Title:  node.Title,
	}
	for _, issue := range node.ClosingIssuesReferences.Nodes {
		pr.ClosingIssues = append(pr.ClosingIssues, convertIssue(issue))
	}

	return pr, nil
}

func convertIssue(node issueNode) Issue {
	issue := Issue{
		ID:     node.ID,
		Number: node.Number,
		Title:  node.Title,
	}
	for _, p := range node.ProjectsV2.Nodes {
		project := Project{
			ID:     p.ID,
			Number: p.Number,
			Title:  p.Title,
			URL:    p.URL,
		}
		for _, f := range p.Fields.Nodes {
			if f.TypeName != "ProjectV2SingleSelectField" {
				continue
			}
			field := SingleSelectField{
				ID:   f.SingleSelectField.ID,
				Name: f.SingleSelectField.Name,
			}
			for _, o := range f.SingleSelectField.Options {
				field.Options = append(field.Options, SingleSelectOption{ID: o.ID, Name: o.Name})
			}
			project.Fields = append(project.Fields, field)
		}
		issue.Projects = append(issue.Projects, project)
	}
	return issue
}

// AddProjectItem implements the Client interface
func (c *GraphQLClient) AddProjectItem(ctx context.Context, projectID string, contentID string) (string, error) {
	var mutation struct {
		AddProjectV2ItemByID struct {
			Item *struct {
				ID string
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}

	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(projectID),
		ContentID: githubv4.ID(contentID),
	}

	if err := c.client.Mutate(ctx, &mutation, input, nil); err != nil {
		return "", fmt.Errorf("failed to add item to project: %w", err)
	}

	item := mutation.AddProjectV2ItemByID.Item
	if item == nil || item.ID == "" {
		return "", fmt.Errorf("%w: project %s, content %s", ErrNoProjectItem, projectID, contentID)
	}

	return item.ID, nil
}

// UpdateSingleSelectField implements the Client interface
func (c *GraphQLClient) UpdateSingleSelectField(ctx context.Context, projectID string, itemID string, fieldID string, optionID string) error {
	var mutation struct {
		UpdateProjectV2ItemFieldValue struct {
			ClientMutationID string
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}

	option := githubv4.String(optionID)
	input := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(fieldID),
		Value:     githubv4.ProjectV2FieldValue{SingleSelectOptionID: &option},
	}

	if err := c.client.Mutate(ctx, &mutation, input, nil); err != nil {
		return fmt.Errorf("failed to update field value: %w", err)
	}

	return nil
}
