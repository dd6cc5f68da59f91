package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"

	"cryptopulse/internal/adapters/config"
	"cryptopulse/internal/adapters/kafka"
	"cryptopulse/internal/events"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

var watchGroup string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail normalized sentiment events from Kafka",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if len(cfg.Kafka.Brokers) == 0 {
			return errors.Wrap(errors.ErrInvalidInput, "KAFKA_BROKERS is not set")
		}

		consumer := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: watchGroup,
			Topic:   kafka.TopicSentimentNormalized,
			Latest:  watchGroup == "",
		})
		defer func() { _ = consumer.Close() }()

		ctx, stop := signalContext(context.Background())
		defer stop()

		err = consumer.Consume(ctx, printNormalizedEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchGroup, "group", "", "consumer group; empty tails from the end without committing offsets")
}

func printNormalizedEvent(ctx context.Context, msg kafkago.Message) error {
	base, rec, err := events.DecodeNormalized(msg)
	if err != nil {
		return err
	}

	fmt.Printf("%s  %-8s up %6.2f%%  down %6.2f%%  compound %+.3f  (published %s)\n",
		rec.Timestamp.Format(time.RFC3339),
		rec.Symbol,
		rec.NormalisedUpPercentage*100,
		rec.NormalisedDownPercentage*100,
		rec.AvgCompound,
		humanize.Time(base.GetTimestamp().AsTime()),
	)
	return nil
}
