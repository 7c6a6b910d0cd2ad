package observability

import "go.opentelemetry.io/otel/attribute"

// sourceAttribute tags every span with the configured leaderboard source.
func sourceAttribute(source string) attribute.KeyValue {
	return attribute.String("leaderboard.source", source)
}
