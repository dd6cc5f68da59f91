package kafka

// Topic definitions for Kafka event streaming
const (
	// TopicSentimentNormalized carries one event per normalized record, keyed by symbol
	TopicSentimentNormalized = "sentiment.normalized"

	// TopicIngestionCompleted carries per-run ingestion summaries
	TopicIngestionCompleted = "sentiment.ingestion_completed"
)
