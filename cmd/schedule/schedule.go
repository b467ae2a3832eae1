// Package schedule implements the schedule command, which runs crawls on
// a recurring cron schedule.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsdigest/cmd/common"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// Command returns the schedule command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run crawls on a recurring schedule",
		Long: `Run a crawl on the configured cron schedule until SIGINT or SIGTERM.
A tick is skipped when the previous run is still active, so runs never
overlap. Requires schedule.enabled in configuration.`,
		RunE: runSchedule,
	}
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}
	log := deps.Logger

	if !deps.Config.Schedule.Enabled {
		return errors.New("scheduling is disabled: set schedule.enabled to true")
	}

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

	scheduler := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(&cronLogger{log: log}),
	))

	_, err = scheduler.AddFunc(deps.Config.Schedule.Cron, func() {
		runOnce(ctx, log, services)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule crawl: %w", err)
	}

	scheduler.Start()
	log.Info("Scheduler started",
		"cron", deps.Config.Schedule.Cron,
		"base_url", deps.Config.Crawler.BaseURL,
	)

	<-ctx.Done()

	log.Info("Stopping scheduler")
	// Stop schedules no further ticks; wait for a running job to finish.
	// The cancelled context is already aborting it.
	<-scheduler.Stop().Done()

	log.Info("Scheduler stopped")
	return nil
}

// runOnce executes one scheduled crawl.
func runOnce(ctx context.Context, log logger.Interface, services *common.RunServices) {
	run, err := services.NewRun()
	if err != nil {
		log.Error("Failed to build scheduled run", "error", err)
		return
	}

	log.Info("Scheduled crawl starting", "run_id", run.ID)

	if err := run.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("Scheduled crawl failed", "run_id", run.ID, "error", err)
		return
	}

	summary := run.Engine.State().BuildSummary()
	log.Info("Scheduled crawl complete",
		"run_id", summary.RunID,
		"articles_emitted", summary.ArticlesEmitted,
		"events_billed", summary.EventsBilled,
		"errors", summary.Errors,
		"duration", summary.Duration().String(),
	)
}

// cronLogger adapts our logger to the cron.Logger interface so skipped
// ticks and scheduler errors land in structured logs.
type cronLogger struct {
	log logger.Interface
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
