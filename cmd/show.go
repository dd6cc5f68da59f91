package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cryptopulse/internal/bootstrap"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/pkg/errors"
)

var showSince time.Duration

var showCmd = &cobra.Command{
	Use:   "show <symbol>",
	Short: "Print the latest normalized record of an asset and its recent history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := strings.ToUpper(strings.TrimSpace(args[0]))

		container := bootstrap.NewContainer()
		container.MustInitCommand()
		defer container.Close()

		ctx := container.Context

		latest, err := container.Repos.Aggregate.GetLatestNormalized(ctx, symbol)
		if err != nil {
			return err
		}
		if latest == nil {
			return errors.Wrapf(errors.ErrNotFound, "no normalized record for %s", symbol)
		}

		records := []sentiment.NormalizedRecord{*latest}
		if container.Repos.History != nil && showSince > 0 {
			history, err := container.Repos.History.GetHistory(ctx, symbol, time.Now().Add(-showSince))
			if err != nil {
				container.Log.Warnw("History unavailable", "symbol", symbol, "error", err)
			} else if len(history) > 0 {
				records = history
			}
		}

		printRecords(records)
		return nil
	},
}

func init() {
	showCmd.Flags().DurationVar(&showSince, "since", 7*24*time.Hour, "history window read from the time series store")
}
