// Package projecturl parses GitHub project (v2) URLs such as
// https://github.com/orgs/acme/projects/7.
package projecturl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// OwnerType represents the type of project owner (user or organization)
type OwnerType int

const (
	// OwnerTypeUser represents a user-owned project
	OwnerTypeUser OwnerType = iota
	// OwnerTypeOrg represents an organization-owned project
	OwnerTypeOrg
)

// ProjectInfo contains the parsed information from a GitHub project URL
type ProjectInfo struct {
	Host          string
	OwnerType     OwnerType
	OwnerLogin    string
	ProjectNumber int
}

// Parse takes a GitHub project URL and returns the parsed ProjectInfo.
// Hosts other than github.com are accepted for GitHub Enterprise.
func Parse(projectURL string) (*ProjectInfo, error) {
	u, err := url.Parse(projectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("invalid URL: missing host in %q", projectURL)
	}

	// Split path into components
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid URL format: %s", u.Path)
	}

	var ownerType OwnerType
	switch parts[0] {
	case "orgs":
		ownerType = OwnerTypeOrg
	case "users":
		ownerType = OwnerTypeUser
	default:
		return nil, fmt.Errorf("invalid owner type in URL: %s", parts[0])
	}

	if parts[2] != "projects" {
		return nil, fmt.Errorf("invalid URL format: expected 'projects' as third component")
	}

	projectNum, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, fmt.Errorf("invalid project number: %w", err)
	}

	return &ProjectInfo{
		Host:          strings.ToLower(u.Host),
		OwnerType:     ownerType,
		OwnerLogin:    parts[1],
		ProjectNumber: projectNum,
	}, nil
}

// ParseAll parses every URL in projectURLs, failing on the first invalid one
func ParseAll(projectURLs []string) ([]ProjectInfo, error) {
	infos := make([]ProjectInfo, 0, len(projectURLs))
	for _, raw := range projectURLs {
		info, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", raw, err)
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// Matches reports whether projectURL points at the same project as p.
// Owner logins are compared case-insensitively, as GitHub does.
func (p ProjectInfo) Matches(projectURL string) bool {
	other, err := Parse(projectURL)
	if err != nil {
		return false
	}
	return p.Host == other.Host &&
		p.OwnerType == other.OwnerType &&
		strings.EqualFold(p.OwnerLogin, other.OwnerLogin) &&
		p.ProjectNumber == other.ProjectNumber
}
