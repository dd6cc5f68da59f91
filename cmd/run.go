package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cryptopulse/internal/bootstrap"
	"cryptopulse/internal/domain/sentiment"
	sentimentsvc "cryptopulse/internal/services/sentiment"
	"cryptopulse/internal/workers"
	sentimentworkers "cryptopulse/internal/workers/sentiment"
	"cryptopulse/pkg/errors"
)

// collectorOrder refreshes the asset universe before the social sources read it
var collectorOrder = []string{
	sentimentworkers.CoingeckoWorkerName,
	sentimentworkers.RedditWorkerName,
	sentimentworkers.YouTubeWorkerName,
	sentimentworkers.NewsWorkerName,
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Run one aggregation cycle now and print the normalized records",
	RunE: func(cmd *cobra.Command, args []string) error {
		container := bootstrap.NewContainer()
		container.MustInitCommand()
		defer container.Close()

		ctx, stop := signalContext(container.Context)
		defer stop()

		release, err := container.Repos.RunLock.Acquire(ctx, sentimentworkers.AggregationWorkerName)
		if err != nil {
			return errors.Wrap(err, "aggregation lock")
		}
		defer release()

		report, err := container.Services.Sentiment.RunAggregation(ctx)
		if err != nil {
			return err
		}

		printReport(report)
		return nil
	},
}

var ingestCmd = &cobra.Command{
	Use:       "ingest <worker|all>",
	Short:     "Run one ingestion collector once",
	Args:      cobra.ExactArgs(1),
	ValidArgs: append([]string{"all"}, collectorOrder...),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := collectorOrder
		if args[0] != "all" {
			names = []string{args[0]}
		}

		container := bootstrap.NewContainer()
		container.MustInitCommand()
		defer container.Close()

		ctx, stop := signalContext(container.Context)
		defer stop()

		registry := container.Background.WorkerRegistry
		failed := &errors.MultiError{}
		for _, name := range names {
			w, ok := registry.Get(name)
			if !ok {
				return errors.Wrapf(errors.ErrNotFound, "worker %q (known: %v)", name, registry.ListNames())
			}

			start := time.Now()
			err := workers.RunOnce(ctx, w)
			failed.Add(errors.Wrap(err, name))
			fmt.Printf("%-22s %-6s %s\n", name, status(err), time.Since(start).Round(time.Millisecond))
		}

		return failed.ToError()
	},
}

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func printReport(report *sentimentsvc.RunReport) {
	fmt.Printf("run %s  window %s .. %s  took %s\n",
		report.RunID,
		report.WindowStart.Format(time.RFC3339),
		report.Timestamp.Format(time.RFC3339),
		report.Duration.Round(time.Millisecond),
	)
	fmt.Printf("points: reddit %s, youtube %s, news %s\n",
		humanize.Comma(int64(report.Points[sentiment.SourceReddit])),
		humanize.Comma(int64(report.Points[sentiment.SourceYouTube])),
		humanize.Comma(int64(report.Points[sentiment.SourceNews])),
	)
	if len(report.CrowdOnly) > 0 {
		fmt.Printf("no baseline: %s\n", strings.Join(report.CrowdOnly, ", "))
	}
	if report.Partial() {
		fmt.Printf("skipped: %s\n", report.Errors.Error())
	}

	printRecords(report.Records)
}

func printRecords(records []sentiment.NormalizedRecord) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tUP\tDOWN\tCOMPOUND\tWEIGHT\tAS OF")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f%%\t%+.3f\t%s\t%s\n",
			r.Symbol,
			r.NormalisedUpPercentage*100,
			r.NormalisedDownPercentage*100,
			r.AvgCompound,
			humanize.CommafWithDigits(r.TotalWeight, 1),
			humanize.Time(r.Timestamp),
		)
	}
	_ = tw.Flush()
}
