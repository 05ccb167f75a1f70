package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/naag/gh-project-field-sync/internal/config"
	"github.com/naag/gh-project-field-sync/internal/event"
	"github.com/naag/gh-project-field-sync/internal/fieldsync"
	"github.com/naag/gh-project-field-sync/internal/github"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newRootCmd(), os.Stdout)
	stop()
	os.Exit(code)
}

// execute runs cmd and reports a failure as an ::error:: workflow command on out
func execute(ctx context.Context, cmd *cobra.Command, out io.Writer) int {
	cmd.SetOut(out)
	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Error("sync failed", "error", err)
		githubactions.New(githubactions.WithWriter(out)).Errorf("%s", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var verboseLevel int
	logLevel := new(slog.LevelVar)

	rootCmd := &cobra.Command{
		Use:           "gh-project-field-sync",
		Short:         "Set a project field on every issue a pull request closes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Configure logging based on verbose level
			switch verboseLevel {
			case 0:
				logLevel.Set(slog.LevelInfo)
			default:
				logLevel.Set(slog.LevelDebug)
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
			slog.SetDefault(logger)
		},
	}

	syncFieldCmd := &cobra.Command{
		Use:   "sync-field",
		Short: "Set a single select field on the project items of the issues closed by a pull request",
		Long: `Looks up the issues the triggering pull request will close, and on every
project (v2) board those issues are on, sets the given single select field
to the given option. Boards lacking the field or the option are skipped.

Inputs are read from flags, GitHub Actions inputs (INPUT_*) and the workflow
environment (GITHUB_TOKEN, GITHUB_EVENT_PATH, GITHUB_GRAPHQL_URL).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncField(cmd, verboseLevel, logLevel)
		},
	}

	rootCmd.AddCommand(syncFieldCmd)
	rootCmd.PersistentFlags().CountVarP(&verboseLevel, "verbose", "v", "Verbosity level (-v for debug logs, -vv for debug logs and HTTP traffic)")
	config.RegisterFlags(syncFieldCmd.Flags())

	return rootCmd
}

func runSyncField(cmd *cobra.Command, verboseLevel int, logLevel *slog.LevelVar) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	httpDebug := verboseLevel >= 2
	if cfg.Debug {
		logLevel.Set(slog.LevelDebug)
		httpDebug = true
	}

	// The event decides whether there is anything to do at all, so it is
	// read before the remaining inputs are required.
	pullRequestID := cfg.PRNodeID
	if pullRequestID == "" && cfg.EventPath != "" {
		pr, err := event.LoadPullRequest(cfg.EventPath)
		if err != nil {
			return err
		}
		if pr == nil {
			slog.Info("payload doesn't contain a pull request, so nothing to be done")
			return nil
		}
		slog.Info("processing pull request", "number", pr.Number, "title", pr.Title, "node_id", pr.NodeID)
		pullRequestID = pr.NodeID
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize GitHub client
	client, err := github.NewGraphQLClient(cfg.Token, cfg.GraphQLURL, httpDebug, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to initialize GitHub client: %w", err)
	}

	service := fieldsync.NewService(client, fieldsync.Options{
		DryRun:      cfg.DryRun,
		Projects:    cfg.Projects,
		Concurrency: cfg.Concurrency,
		Logger:      slog.Default(),
	})

	summary, err := service.SyncField(cmd.Context(), pullRequestID, cfg.FieldName, cfg.FieldValue)
	if err != nil {
		return err
	}

	if summary.Updated > 0 {
		githubactions.New(githubactions.WithWriter(cmd.OutOrStdout())).
			Noticef("Set %q to %q on %d project item(s)", cfg.FieldName, cfg.FieldValue, summary.Updated)
	}
	return nil
}
