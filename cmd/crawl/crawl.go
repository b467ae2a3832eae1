// Package crawl implements the crawl command, which runs one digest
// crawl to completion.
package crawl

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsdigest/cmd/common"
)

// Command returns the crawl command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Run one digest crawl",
		Long: `Run one crawl against the configured feed: visit the planned listing
pages, follow article links, extract and summarize each article, and emit
records to the configured dataset sink. Blocks until the run completes or
an interrupt arrives.`,
		RunE: runCrawl,
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}
	log := deps.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := common.NewRunServices(ctx, deps)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := services.Close(); closeErr != nil {
			log.Error("Failed to close services", "error", closeErr)
		}
	}()

	run, err := services.NewRun()
	if err != nil {
		return err
	}

	log.Info("Starting crawl",
		"run_id", run.ID,
		"base_url", services.Config.Crawler.BaseURL,
		"pages", services.Plan.PageCount,
		"request_budget", services.Plan.RequestBudget(),
	)

	if err := run.Start(ctx); err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	summary := run.Engine.State().BuildSummary()
	log.Info("Crawl complete",
		"run_id", summary.RunID,
		"pages_visited", summary.PagesVisited,
		"articles_emitted", summary.ArticlesEmitted,
		"summaries_produced", summary.SummariesProduced,
		"events_billed", summary.EventsBilled,
		"errors", summary.Errors,
		"duration", summary.Duration().String(),
	)

	return nil
}
