// Package plan implements the plan command, which prints the crawl plan
// derived from configuration without visiting anything.
package plan

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsdigest/cmd/common"
	"github.com/jonesrussell/newsdigest/internal/planner"
)

// Command returns the plan command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the crawl plan without crawling",
		Long: `Compute the crawl plan from the configured feed URL, article target,
and page size, and print the listing pages that a crawl would visit along
with its request budget. No requests are made.`,
		RunE: runPlan,
	}
}

func runPlan(_ *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}
	cfg := deps.Config

	plan, err := planner.Compute(cfg.Crawler.BaseURL, cfg.Crawler.MaxArticles, cfg.Crawler.PageSize)
	if err != nil {
		return fmt.Errorf("failed to compute crawl plan: %w", err)
	}

	renderPlan(plan)
	return nil
}

// renderPlan prints the plan as two tables: the derived numbers, then
// the listing pages in visit order.
func renderPlan(plan planner.Plan) {
	summary := table.NewWriter()
	summary.SetOutputMirror(os.Stdout)
	summary.SetStyle(table.StyleLight)
	summary.AppendHeader(table.Row{"Setting", "Value"})
	summary.AppendRow(table.Row{"Base URL", plan.BaseURL})
	summary.AppendRow(table.Row{"Target articles", plan.TargetItemCount})
	summary.AppendRow(table.Row{"Page size", plan.PageSize})
	summary.AppendRow(table.Row{"Listing pages", plan.PageCount})
	summary.AppendRow(table.Row{"Request budget", plan.RequestBudget()})
	summary.Render()

	if plan.IsEmpty() {
		fmt.Println("Plan is empty: nothing would be crawled.")
		return
	}

	seeds := table.NewWriter()
	seeds.SetOutputMirror(os.Stdout)
	seeds.SetStyle(table.StyleLight)
	seeds.AppendHeader(table.Row{"Page", "Listing URL"})
	for i, seed := range plan.SeedURLs {
		seeds.AppendRow(table.Row{i + 1, seed})
	}
	seeds.Render()
}
