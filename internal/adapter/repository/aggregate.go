package repository

import "cloud.google.com/go/firestore"

// aggregateCount reads a COUNT alias out of an aggregation result.
func aggregateCount(result firestore.AggregationResult, alias string) int64 {
	value, ok := result[alias]
	if !ok {
		return 0
	}
	if count, ok := value.(interface{ GetIntegerValue() int64 }); ok {
		return count.GetIntegerValue()
	}
	return 0
}
