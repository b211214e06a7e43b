package common

const (
	RedisStreamChartInsightRequest = "chart.insight.request"

	RedisStreamGroup    = "insight-group"
	RedisStreamConsumer = "insight-consumer"

	// RedisStreamPayloadField is the stream entry field carrying the JSON payload.
	RedisStreamPayloadField = "payload"
)
