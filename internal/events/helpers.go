package events

import (
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/timestamppb"

	"cryptopulse/internal/domain/sentiment"
	eventspb "cryptopulse/internal/events/proto"
)

// Event types
const (
	TypeSentimentNormalized = "sentiment.normalized"
	TypeIngestionCompleted  = "sentiment.ingestion_completed"
)

const eventVersion = "1.0"

// NewBaseEvent creates the routing metadata for one event
func NewBaseEvent(eventType, source string, at time.Time) *eventspb.BaseEvent {
	return &eventspb.BaseEvent{
		Id:        uuid.NewString(),
		Type:      eventType,
		Timestamp: timestamppb.New(at.UTC()),
		Source:    source,
		Version:   eventVersion,
	}
}

// NormalizedEvent converts a normalized record to its wire form
func NormalizedEvent(base *eventspb.BaseEvent, rec sentiment.NormalizedRecord) *eventspb.SentimentNormalizedEvent {
	return &eventspb.SentimentNormalizedEvent{
		Base:                     base,
		Symbol:                   rec.Symbol,
		WindowStart:              timestamppb.New(rec.EarliestPost),
		WindowTimestamp:          timestamppb.New(rec.Timestamp),
		NormalisedUpPercentage:   rec.NormalisedUpPercentage,
		NormalisedDownPercentage: rec.NormalisedDownPercentage,
		AvgPositive:              rec.AvgPositive,
		AvgNeutral:               rec.AvgNeutral,
		AvgNegative:              rec.AvgNegative,
		AvgCompound:              rec.AvgCompound,
		PositiveCount:            rec.PositiveCount,
		NegativeCount:            rec.NegativeCount,
		NeutralCount:             rec.NeutralCount,
		TotalWeight:              rec.TotalWeight,
	}
}

// RecordFromEvent is the inverse of NormalizedEvent
func RecordFromEvent(ev *eventspb.SentimentNormalizedEvent) sentiment.NormalizedRecord {
	return sentiment.NormalizedRecord{
		Symbol:                   ev.GetSymbol(),
		Timestamp:                ev.GetWindowTimestamp().AsTime(),
		NormalisedUpPercentage:   ev.GetNormalisedUpPercentage(),
		NormalisedDownPercentage: ev.GetNormalisedDownPercentage(),
		AvgPositive:              ev.GetAvgPositive(),
		AvgNeutral:               ev.GetAvgNeutral(),
		AvgNegative:              ev.GetAvgNegative(),
		AvgCompound:              ev.GetAvgCompound(),
		PositiveCount:            ev.GetPositiveCount(),
		NegativeCount:            ev.GetNegativeCount(),
		NeutralCount:             ev.GetNeutralCount(),
		TotalWeight:              ev.GetTotalWeight(),
		EarliestPost:             ev.GetWindowStart().AsTime(),
	}
}
