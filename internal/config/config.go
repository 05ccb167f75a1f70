// Package config resolves the inputs of a sync run from command line flags,
// GitHub Actions inputs (INPUT_* environment variables) and the workflow
// environment, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/naag/gh-project-field-sync/internal/github/projecturl"
)

// Keys double as action input names (INPUT_<KEY> upper-cased)
const (
	KeyToken       = "github-token"
	KeyFieldName   = "project-field-name"
	KeyFieldValue  = "project-field-value"
	KeyEventPath   = "event-path"
	KeyPRNodeID    = "pr-node-id"
	KeyGraphQLURL  = "graphql-url"
	KeyDryRun      = "dry-run"
	KeyProjects    = "projects"
	KeyConcurrency = "concurrency"
	KeyDebug       = "debug"
)

// Config is the resolved input of a single run
type Config struct {
	Token       string
	FieldName   string
	FieldValue  string
	EventPath   string
	PRNodeID    string
	GraphQLURL  string
	DryRun      bool
	Projects    []projecturl.ProjectInfo
	Concurrency int
	// Debug is set when the runner has step debugging enabled
	Debug bool
}

// flagKeys maps flag names to config keys for flags whose name differs from the key
var flagKeys = map[string]string{
	"field":   KeyFieldName,
	"value":   KeyFieldValue,
	"project": KeyProjects,
}

// envKeys lists the environment variables consulted for each key, first match wins
var envKeys = map[string][]string{
	KeyToken:       {actionInput(KeyToken), "GITHUB_TOKEN"},
	KeyFieldName:   {actionInput(KeyFieldName)},
	KeyFieldValue:  {actionInput(KeyFieldValue)},
	KeyEventPath:   {"GITHUB_EVENT_PATH"},
	KeyPRNodeID:    {actionInput(KeyPRNodeID)},
	KeyGraphQLURL:  {actionInput(KeyGraphQLURL), "GITHUB_GRAPHQL_URL"},
	KeyDryRun:      {actionInput(KeyDryRun)},
	KeyProjects:    {actionInput(KeyProjects)},
	KeyConcurrency: {actionInput(KeyConcurrency)},
	KeyDebug:       {"RUNNER_DEBUG"},
}

// RegisterFlags defines the command line flags Load understands
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyToken, "", "GitHub token (defaults to the github-token input or GITHUB_TOKEN)")
	flags.String("field", "", "Name of the single select project field to set")
	flags.String("value", "", "Name of the option to set the field to")
	flags.String(KeyEventPath, "", "Path of the workflow event payload (defaults to GITHUB_EVENT_PATH)")
	flags.String(KeyPRNodeID, "", "Pull request node ID, overrides the event payload")
	flags.String(KeyGraphQLURL, "", "GraphQL endpoint for GitHub Enterprise (defaults to GITHUB_GRAPHQL_URL)")
	flags.Bool(KeyDryRun, false, "Resolve fields and options but do not update anything")
	flags.StringArray("project", nil, "Only update this project (URL, can be specified multiple times)")
	flags.Int(KeyConcurrency, 1, "Number of project items updated in parallel")
}

// actionInput returns the environment variable the runner sets for an action input
func actionInput(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// Load resolves a Config from flags and the environment. Flags that were not
// set on the command line fall back to the environment, then to their defaults.
// Required inputs are not checked here; call Validate once it is known that
// there is work to do.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyConcurrency, 1)

	for key, envs := range envKeys {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := f.Name
			if k, ok := flagKeys[f.Name]; ok {
				key = k
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	projects, err := projecturl.ParseAll(splitList(v.GetStringSlice(KeyProjects)))
	if err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}

	cfg := &Config{
		Token:       v.GetString(KeyToken),
		FieldName:   v.GetString(KeyFieldName),
		FieldValue:  v.GetString(KeyFieldValue),
		EventPath:   v.GetString(KeyEventPath),
		PRNodeID:    v.GetString(KeyPRNodeID),
		GraphQLURL:  v.GetString(KeyGraphQLURL),
		DryRun:      v.GetBool(KeyDryRun),
		Projects:    projects,
		Concurrency: v.GetInt(KeyConcurrency),
		Debug:       v.GetBool(KeyDebug),
	}

	return cfg, nil
}

// Validate checks that every required input is present
func (c *Config) Validate() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, KeyToken)
	}
	if c.FieldName == "" {
		missing = append(missing, KeyFieldName)
	}
	if c.FieldValue == "" {
		missing = append(missing, KeyFieldValue)
	}
	if c.EventPath == "" && c.PRNodeID == "" {
		missing = append(missing, KeyEventPath+" or "+KeyPRNodeID)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required input: %s", strings.Join(missing, ", "))
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// splitList flattens comma and newline separated entries, as action inputs
// cannot carry lists
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '\n' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
